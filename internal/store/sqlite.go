package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS profiles (
        id TEXT PRIMARY KEY, -- UUID
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        full_name TEXT NOT NULL,
        phone TEXT NOT NULL DEFAULT '',
        role TEXT NOT NULL DEFAULT 'parent' CHECK (role IN ('parent', 'admin')),
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS children (
        id TEXT PRIMARY KEY, -- UUID
        parent_id TEXT NOT NULL,
        name TEXT NOT NULL,
        date_of_birth TEXT,
        gender TEXT,
        blood_type TEXT,
        allergies TEXT, -- JSON array of strings
        medical_notes TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (parent_id) REFERENCES profiles (id)
    );

    CREATE TABLE IF NOT EXISTS chat_sessions (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        name TEXT,
        initial_prompt TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES profiles (id)
    );

    CREATE TABLE IF NOT EXISTS chat_messages (
        id TEXT PRIMARY KEY, -- UUID
        session_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        source_chunks TEXT, -- JSON array of strings, assistant citations
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES chat_sessions (id)
    );

    CREATE TABLE IF NOT EXISTS child_vaccinations (
        id TEXT PRIMARY KEY, -- UUID
        child_id TEXT NOT NULL,
        vaccine_name TEXT NOT NULL,
        completed BOOLEAN NOT NULL DEFAULT TRUE,
        completed_at DATETIME NOT NULL,
        UNIQUE (child_id, vaccine_name),
        FOREIGN KEY (child_id) REFERENCES children (id)
    );

    CREATE TABLE IF NOT EXISTS child_milestones (
        id TEXT PRIMARY KEY, -- UUID
        child_id TEXT NOT NULL,
        milestone_id TEXT NOT NULL,
        category TEXT NOT NULL CHECK (category IN ('physical', 'social')),
        age_range TEXT NOT NULL,
        description TEXT NOT NULL,
        achieved_at DATETIME NOT NULL,
        UNIQUE (child_id, milestone_id),
        FOREIGN KEY (child_id) REFERENCES children (id)
    );

    CREATE TABLE IF NOT EXISTS reminders (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        title TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        due_date DATETIME NOT NULL,
        is_completed BOOLEAN NOT NULL DEFAULT FALSE,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES profiles (id)
    );

    CREATE TABLE IF NOT EXISTS notifications (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        title TEXT NOT NULL,
        message TEXT NOT NULL,
        is_read BOOLEAN NOT NULL DEFAULT FALSE,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES profiles (id)
    );

    CREATE TABLE IF NOT EXISTS knowledge_chunks (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        content TEXT NOT NULL,
        embedding_json TEXT -- JSON string of []float32
    );

    CREATE INDEX IF NOT EXISTS idx_children_parent ON children (parent_id);
    CREATE INDEX IF NOT EXISTS idx_sessions_user ON chat_sessions (user_id);
    CREATE INDEX IF NOT EXISTS idx_messages_session ON chat_messages (session_id);
    CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders (user_id);
    CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id);
    `
	_, err := s.db.Exec(schema)
	return err
}
