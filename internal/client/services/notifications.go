package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/models"
	"github.com/dmitrijs2005/swapmarket/internal/client/optimistic"
	"github.com/dmitrijs2005/swapmarket/internal/common"
	"github.com/dmitrijs2005/swapmarket/internal/logging"
)

// NotificationService owns the notification feed of the current user.
//
// Contract:
//   - Refresh: replace the list with the server's copy, keeping its order.
//   - MarkRead: idempotent optimistic read toggle for one notification;
//     already-read entries are a no-op with no network call.
//   - Notifications/Unread: read-only render state.
type NotificationService interface {
	Refresh(ctx context.Context) error
	MarkRead(ctx context.Context, notificationID int64) error
	Notifications() []models.Notification
	Unread() int
}

type notificationService struct {
	client api.Client
	engine *optimistic.Engine
	log    logging.Logger

	mu    sync.Mutex
	list  []*models.Notification
	index map[int64]*models.Notification
}

func NewNotificationService(client api.Client, engine *optimistic.Engine, log logging.Logger) NotificationService {
	return &notificationService{
		client: client,
		engine: engine,
		log:    log.With("component", "notifications"),
		index:  make(map[int64]*models.Notification),
	}
}

// Refresh fetches the feed. Server insertion order is preserved; entries are
// never reordered on read.
func (s *notificationService) Refresh(ctx context.Context) error {
	list, err := s.client.GetNotifications(ctx)
	if err != nil {
		return fmt.Errorf("fetching notifications: %w", err)
	}

	index := make(map[int64]*models.Notification, len(list))
	for _, n := range list {
		index[n.ID] = n
	}

	s.mu.Lock()
	s.list = list
	s.index = index
	s.mu.Unlock()
	return nil
}

// MarkRead marks one notification as read.
//
// The read flag flips locally before the network call; a rejected or failed
// call restores the captured prior value of that notification only, leaving
// the rest of the collection untouched. Marking an already-read notification
// again is a no-op: no network call, no state change.
func (s *notificationService) MarkRead(ctx context.Context, notificationID int64) error {
	s.mu.Lock()
	n, ok := s.index[notificationID]
	if !ok {
		s.mu.Unlock()
		return common.ErrNotFound
	}
	if n.Read {
		s.mu.Unlock()
		return nil
	}
	prior := n.Read
	s.mu.Unlock()

	key := "notification:" + strconv.FormatInt(notificationID, 10)
	return s.engine.Run(ctx, key, optimistic.Mutation{
		Apply: func() {
			s.mu.Lock()
			n.Read = true
			s.mu.Unlock()
		},
		Restore: func() {
			s.mu.Lock()
			n.Read = prior
			s.mu.Unlock()
		},
		Commit: func(ctx context.Context) error {
			return s.client.MarkNotificationRead(ctx, notificationID)
		},
	})
}

// Notifications returns a snapshot of the feed in server order.
func (s *notificationService) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, 0, len(s.list))
	for _, n := range s.list {
		out = append(out, *n)
	}
	return out
}

// Unread returns the badge count for the header.
func (s *notificationService) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.list {
		if !n.Read {
			count++
		}
	}
	return count
}
