// Package api is the transport layer of the SwapMarket client: an interface
// over the backend's envelope-speaking REST endpoints plus its HTTP
// implementation. Services depend on the Client interface only, so tests can
// substitute fakes.
package api

import (
	"context"

	"github.com/dmitrijs2005/swapmarket/internal/client/models"
)

// Client exposes the backend operations the state layer consumes.
//
// Mutating calls return nil on a success envelope, *Error on a rejected one,
// and an ErrUnavailable-wrapped error on transport failure. All methods honor
// context cancellation and deadlines.
type Client interface {
	Close() error

	// Profile / follow edge.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	// FollowUser toggles the follow edge server-side based on the current
	// relationship; the client does not pass a target state.
	FollowUser(ctx context.Context, userID string) error

	// Notifications.
	GetNotifications(ctx context.Context) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID int64) error

	// Trades and reviews.
	GetTrades(ctx context.Context) ([]*models.Trade, error)
	CompleteTrade(ctx context.Context, tradeID string) error
	CreateReview(ctx context.Context, draft models.ReviewDraft) error

	// OTP and registration.
	SendOtp(ctx context.Context, email string) error
	VerifyOtp(ctx context.Context, email string, code string) (bool, error)
	Register(ctx context.Context, email, nickname, password, code string) error
}
