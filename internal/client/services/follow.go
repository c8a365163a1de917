// Package services contains the application services of the SwapMarket
// client: the follow relationship machine, the notification read-state
// tracker, the trade lifecycle service, and the OTP verification flow. Each
// service owns its view state, runs its mutations through the optimistic
// engine, and reports failures to the caller for user-visible messaging.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/models"
	"github.com/dmitrijs2005/swapmarket/internal/client/optimistic"
	"github.com/dmitrijs2005/swapmarket/internal/common"
	"github.com/dmitrijs2005/swapmarket/internal/logging"
)

// FollowService drives the follow button of one viewed profile.
//
// Contract:
//   - Refresh: load/replace the profile wholesale.
//   - Toggle: optimistically flip the follow edge; roll back on rejection;
//     refetch the profile on confirmation to reconcile follower counts.
//   - Profile/ButtonLabel/InFlight: read-only render state.
type FollowService interface {
	Refresh(ctx context.Context) error
	Toggle(ctx context.Context) error
	Profile() (models.Profile, bool)
	ButtonLabel() string
	InFlight() bool
}

type followService struct {
	client api.Client
	engine *optimistic.Engine
	log    logging.Logger

	userID string

	mu      sync.Mutex
	profile *models.Profile
}

// NewFollowService constructs a FollowService for the given profile id.
func NewFollowService(client api.Client, engine *optimistic.Engine, log logging.Logger, userID string) FollowService {
	return &followService{
		client: client,
		engine: engine,
		log:    log.With("component", "follow", "user_id", userID),
		userID: userID,
	}
}

func (s *followService) key() string {
	return "follow:" + s.userID
}

// Refresh fetches the profile and replaces the owned copy wholesale.
func (s *followService) Refresh(ctx context.Context) error {
	p, err := s.client.GetProfile(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("fetching profile: %w", err)
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return nil
}

// Toggle issues the follow/unfollow command for the current relationship.
//
// The relationship flips locally before the network call resolves. On server
// rejection or transport failure the captured prior status is restored and
// the error is returned for the alert. On confirmation the full profile is
// refetched, since the resulting follower counts are not predictable
// client-side; a failed refetch keeps the confirmed optimistic status.
func (s *followService) Toggle(ctx context.Context) error {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return common.ErrNotFound
	}
	prior := s.profile.Relationship
	s.mu.Unlock()

	if prior == models.RelationshipSelf {
		return common.ErrSelfFollow
	}

	err := s.engine.Run(ctx, s.key(), optimistic.Mutation{
		Apply: func() {
			s.mu.Lock()
			s.profile.Relationship = prior.Toggled()
			s.mu.Unlock()
		},
		Restore: func() {
			s.mu.Lock()
			s.profile.Relationship = prior
			s.mu.Unlock()
		},
		Commit: func(ctx context.Context) error {
			return s.client.FollowUser(ctx, s.userID)
		},
	})
	if err != nil {
		return err
	}

	if err := s.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "profile refetch after toggle failed", "error", err)
	}
	return nil
}

func (s *followService) Profile() (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return *s.profile, true
}

func (s *followService) ButtonLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Relationship.ButtonLabel()
}

func (s *followService) InFlight() bool {
	return s.engine.InFlight(s.key())
}
