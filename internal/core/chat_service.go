package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/store"
)

// GreetingMessage is the canned opening shown whenever a session has no
// history. It is a rendering default only and is never persisted.
const GreetingMessage = "مرحباً، أنا طمّني - المساعد الطبي لصحة طفلك. كيف يمكنني مساعدتك اليوم؟"

// assistantFallback is stored as the assistant turn when reply generation
// fails. The user turn is already persisted at that point and stays.
const assistantFallback = "عذراً، واجهت مشكلة أثناء تجهيز الرد. يرجى المحاولة مرة أخرى."

const historyWindow = 10 // prior messages replayed to the model per turn

var ErrSessionNotFound = errors.New("chat session not found")

type ChatService struct {
	dbStore   *store.SQLiteStore
	llm       LanguageModel
	retriever Retriever
	logger    *zap.Logger
}

func NewChatService(db *store.SQLiteStore, llm LanguageModel, retriever Retriever, logger *zap.Logger) *ChatService {
	return &ChatService{
		dbStore:   db,
		llm:       llm,
		retriever: retriever,
		logger:    logger,
	}
}

func (s *ChatService) ListSessions(userID string) ([]store.ChatSession, error) {
	return s.dbStore.ListSessionsByUser(userID)
}

// SessionMessages returns the session's messages in creation-time order.
// An empty session falls back to the canned greeting.
func (s *ChatService) SessionMessages(sessionID, userID string) ([]store.ChatMessage, error) {
	session, err := s.dbStore.GetSessionByID(sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	messages, err := s.dbStore.ListMessagesBySession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if len(messages) == 0 {
		return s.Greeting(), nil
	}
	return messages, nil
}

// Greeting is the message list rendered for a brand-new, unsaved session.
func (s *ChatService) Greeting() []store.ChatMessage {
	return []store.ChatMessage{{
		ID:        "greeting",
		Role:      store.RoleMessageAssistant,
		Content:   GreetingMessage,
		CreatedAt: time.Now(),
		Persisted: false,
	}}
}

type SendResult struct {
	SessionID        string            `json:"session_id"`
	Response         string            `json:"response"`
	SourceChunks     []string          `json:"source_chunks,omitempty"`
	UserMessage      store.ChatMessage `json:"user_message"`
	AssistantMessage store.ChatMessage `json:"assistant_message"`
}

// Send runs one chat turn. A nil sessionID means "unsaved new session": a
// session is created and its id returned for the caller to adopt. The user
// message is persisted before the assistant turn is attempted and is never
// rolled back, so a failed generation loses nothing the user wrote.
func (s *ChatService) Send(userID string, sessionID *string, message string) (*SendResult, error) {
	var session *store.ChatSession
	var err error

	if sessionID != nil {
		session, err = s.dbStore.GetSessionByID(*sessionID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify session: %w", err)
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
	} else {
		session, err = s.dbStore.CreateSession(userID, &message)
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
	}

	history, err := s.dbStore.GetLastNMessages(session.ID, historyWindow)
	if err != nil {
		s.logger.Warn("Failed to load chat history, proceeding without it",
			zap.String("session_id", session.ID), zap.Error(err))
		history = nil
	}

	userMsg := store.ChatMessage{
		SessionID: session.ID,
		Role:      store.RoleMessageUser,
		Content:   message,
	}
	if err := s.dbStore.CreateMessage(&userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	var chunks []string
	if s.retriever != nil {
		chunks, err = s.retriever.Retrieve(message)
		if err != nil {
			// Context retrieval is best effort; answer without it.
			s.logger.Warn("Knowledge retrieval failed", zap.Error(err))
			chunks = nil
		}
	}

	response, err := s.llm.Reply(history, strings.Join(chunks, "\n\n"), message)
	if err != nil {
		s.logger.Error("Failed to generate assistant reply",
			zap.String("session_id", session.ID), zap.Error(err))
		response = assistantFallback
		chunks = nil
	}

	assistantMsg := store.ChatMessage{
		SessionID:    session.ID,
		Role:         store.RoleMessageAssistant,
		Content:      response,
		SourceChunks: chunks,
	}
	if err := s.dbStore.CreateMessage(&assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	if err := s.dbStore.TouchSession(session.ID); err != nil {
		s.logger.Warn("Failed to bump session timestamp",
			zap.String("session_id", session.ID), zap.Error(err))
	}

	// Derive the session name from the first turn once, off the request path.
	if session.Name == nil || *session.Name == "" {
		go s.generateAndSaveSessionName(session.ID, userID, message)
	}

	return &SendResult{
		SessionID:        session.ID,
		Response:         response,
		SourceChunks:     chunks,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

func (s *ChatService) generateAndSaveSessionName(sessionID, userID, basisContent string) {
	name, err := s.llm.Title(basisContent)
	if err != nil {
		s.logger.Warn("Failed to generate session name",
			zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	name = strings.Trim(name, "\"'\n\r\t .")
	if name == "" {
		return
	}

	if err := s.dbStore.UpdateSessionName(sessionID, userID, name); err != nil {
		s.logger.Warn("Failed to save session name",
			zap.String("session_id", sessionID), zap.String("name", name), zap.Error(err))
	}
}
