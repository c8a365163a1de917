package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/swapmarket/internal/client/models"
	"github.com/dmitrijs2005/swapmarket/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeClient implements api.Client for the service unit tests. Results and
// errors are configured per method; Last* fields and call counters allow
// asserting both arguments and "no network call" properties.
type fakeClient struct {
	mu sync.Mutex

	GetProfileRet   *models.Profile
	GetProfileErr   error
	GetProfileCalls int

	FollowErr        error
	FollowCalls      int
	LastFollowUserID string

	NotificationsRet []*models.Notification
	NotificationsErr error

	MarkReadErr    error
	MarkReadCalls  int
	LastMarkReadID int64

	TradesRet      []*models.Trade
	TradesErr      error
	GetTradesCalls int

	CompleteErr         error
	CompleteCalls       int
	LastCompleteTradeID string

	CreateReviewErr   error
	CreateReviewCalls int
	LastReview        models.ReviewDraft

	SendOtpErr   error
	SendOtpCalls int
	LastOtpEmail string

	VerifyOtpRet    bool
	VerifyOtpErr    error
	VerifyOtpCalls  int
	LastVerifyEmail string
	LastVerifyCode  string

	RegisterErr error
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetProfileCalls++
	if f.GetProfileErr != nil {
		return nil, f.GetProfileErr
	}
	p := *f.GetProfileRet
	return &p, nil
}

func (f *fakeClient) FollowUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FollowCalls++
	f.LastFollowUserID = userID
	return f.FollowErr
}

func (f *fakeClient) GetNotifications(ctx context.Context) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NotificationsErr != nil {
		return nil, f.NotificationsErr
	}
	out := make([]*models.Notification, 0, len(f.NotificationsRet))
	for _, n := range f.NotificationsRet {
		c := *n
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeClient) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MarkReadCalls++
	f.LastMarkReadID = notificationID
	return f.MarkReadErr
}

func (f *fakeClient) GetTrades(ctx context.Context) ([]*models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetTradesCalls++
	if f.TradesErr != nil {
		return nil, f.TradesErr
	}
	out := make([]*models.Trade, 0, len(f.TradesRet))
	for _, t := range f.TradesRet {
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeClient) CompleteTrade(ctx context.Context, tradeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CompleteCalls++
	f.LastCompleteTradeID = tradeID
	return f.CompleteErr
}

func (f *fakeClient) CreateReview(ctx context.Context, draft models.ReviewDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateReviewCalls++
	f.LastReview = draft
	return f.CreateReviewErr
}

func (f *fakeClient) SendOtp(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SendOtpCalls++
	f.LastOtpEmail = email
	return f.SendOtpErr
}

func (f *fakeClient) VerifyOtp(ctx context.Context, email string, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.VerifyOtpCalls++
	f.LastVerifyEmail = email
	f.LastVerifyCode = code
	return f.VerifyOtpRet, f.VerifyOtpErr
}

func (f *fakeClient) Register(ctx context.Context, email, nickname, password, code string) error {
	return f.RegisterErr
}

