package core

import (
	"fmt"

	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/store"
)

// PushSender forwards a title/message pair to the push gateway.
type PushSender interface {
	Send(title, message string) error
}

// BroadcastService performs the admin fan-out: one notification row per
// currently registered profile, then a single push-relay invocation. This is
// a point-in-time snapshot, not a subscription; accounts registered after
// the broadcast never receive it.
type BroadcastService struct {
	dbStore *store.SQLiteStore
	push    PushSender
	logger  *zap.Logger
}

func NewBroadcastService(db *store.SQLiteStore, push PushSender, logger *zap.Logger) *BroadcastService {
	return &BroadcastService{dbStore: db, push: push, logger: logger}
}

type BroadcastResult struct {
	Recipients int  `json:"recipients"`
	PushSent   bool `json:"push_sent"`
}

func (s *BroadcastService) Broadcast(title, message string) (*BroadcastResult, error) {
	ids, err := s.dbStore.ListProfileIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	if len(ids) == 0 {
		return &BroadcastResult{Recipients: 0, PushSent: false}, nil
	}

	inserted, err := s.dbStore.InsertNotifications(ids, title, message)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notifications: %w", err)
	}

	// Exactly one relay call regardless of how many rows were written. A
	// relay failure is a partial success: the rows stay.
	pushSent := true
	if err := s.push.Send(title, message); err != nil {
		s.logger.Warn("Push relay failed, notifications were still saved", zap.Error(err))
		pushSent = false
	}

	s.logger.Info("Broadcast completed",
		zap.Int("recipients", inserted), zap.Bool("push_sent", pushSent))

	return &BroadcastResult{Recipients: inserted, PushSent: pushSent}, nil
}
