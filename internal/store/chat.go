package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateSession(userID string, initialPrompt *string) (*ChatSession, error) {
	session := ChatSession{
		ID:            uuid.NewString(),
		UserID:        userID,
		InitialPrompt: initialPrompt,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	_, err := s.db.Exec(
		"INSERT INTO chat_sessions (id, user_id, name, initial_prompt, created_at, updated_at) VALUES (?, ?, NULL, ?, ?, ?)",
		session.ID, session.UserID, session.InitialPrompt, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat session: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) GetSessionByID(sessionID, userID string) (*ChatSession, error) {
	var session ChatSession
	var name sql.NullString
	err := s.db.QueryRow(
		"SELECT id, user_id, name, initial_prompt, created_at, updated_at FROM chat_sessions WHERE id = ? AND user_id = ?",
		sessionID, userID,
	).Scan(&session.ID, &session.UserID, &name, &session.InitialPrompt, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	if name.Valid {
		session.Name = &name.String
	}
	return &session, nil
}

// ListSessionsByUser returns sessions most-recently-updated first.
func (s *SQLiteStore) ListSessionsByUser(userID string) ([]ChatSession, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, initial_prompt, created_at, updated_at FROM chat_sessions WHERE user_id = ? ORDER BY updated_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []ChatSession
	for rows.Next() {
		var session ChatSession
		var name sql.NullString
		if err := rows.Scan(&session.ID, &session.UserID, &name, &session.InitialPrompt, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat session row: %w", err)
		}
		if name.Valid {
			session.Name = &name.String
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) UpdateSessionName(sessionID, userID, name string) error {
	res, err := s.db.Exec(
		"UPDATE chat_sessions SET name = ? WHERE id = ? AND user_id = ?",
		name, sessionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session name: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("session not found or not owned by user, name not updated")
	}
	return nil
}

// TouchSession bumps updated_at so the session sorts to the top of the list.
func (s *SQLiteStore) TouchSession(sessionID string) error {
	_, err := s.db.Exec("UPDATE chat_sessions SET updated_at = ? WHERE id = ?", time.Now(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateMessage(msg *ChatMessage) error {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	msg.Persisted = true

	var sourceChunksJSON *string
	if len(msg.SourceChunks) > 0 {
		b, err := json.Marshal(msg.SourceChunks)
		if err != nil {
			return fmt.Errorf("failed to marshal source chunks: %w", err)
		}
		str := string(b)
		sourceChunksJSON = &str
	}

	_, err := s.db.Exec(
		"INSERT INTO chat_messages (id, session_id, role, content, source_chunks, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		msg.ID, msg.SessionID, msg.Role, msg.Content, sourceChunksJSON, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// ListMessagesBySession returns messages in creation-time order, insertion
// order as tiebreaker (rowid is monotonic in SQLite).
func (s *SQLiteStore) ListMessagesBySession(sessionID string) ([]ChatMessage, error) {
	rows, err := s.db.Query(
		"SELECT id, session_id, role, content, source_chunks, created_at FROM chat_messages WHERE session_id = ? ORDER BY created_at ASC, rowid ASC",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// GetLastNMessages returns the most recent n messages in creation-time order.
func (s *SQLiteStore) GetLastNMessages(sessionID string, n int) ([]ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, role, content, source_chunks, created_at FROM (
             SELECT id, session_id, role, content, source_chunks, created_at, rowid
             FROM chat_messages WHERE session_id = ?
             ORDER BY created_at DESC, rowid DESC LIMIT ?
         ) ORDER BY created_at ASC, rowid ASC`,
		sessionID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]ChatMessage, error) {
	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		var sourceChunksJSON sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &sourceChunksJSON, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		if sourceChunksJSON.Valid && sourceChunksJSON.String != "" {
			if err := json.Unmarshal([]byte(sourceChunksJSON.String), &msg.SourceChunks); err != nil {
				return nil, fmt.Errorf("failed to unmarshal source chunks for message %s: %w", msg.ID, err)
			}
		}
		msg.Persisted = true
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
