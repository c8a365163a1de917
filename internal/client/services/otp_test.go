package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/optimistic"
	"github.com/dmitrijs2005/swapmarket/internal/common"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

const testOtpTTL = 300 * time.Second

func newOtpFlow(t *testing.T, fc *fakeClient) (*OtpFlow, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)}
	flow := NewOtpFlow(fc, optimistic.NewEngine(), testLogger(), testOtpTTL)
	flow.now = clock.Now
	t.Cleanup(flow.Cancel)
	return flow, clock
}

func TestOtp_RequestStartsSession(t *testing.T) {
	fc := &fakeClient{}
	flow, _ := newOtpFlow(t, fc)

	require.NoError(t, flow.Request(context.Background(), "user@example.com"))
	require.Equal(t, OtpSent, flow.State())
	require.Equal(t, 300, flow.Remaining())
	require.Equal(t, 1, fc.SendOtpCalls)
	require.Equal(t, "user@example.com", fc.LastOtpEmail)
}

func TestOtp_RequestInvalidEmailIsLocal(t *testing.T) {
	fc := &fakeClient{}
	flow, _ := newOtpFlow(t, fc)

	require.ErrorIs(t, flow.Request(context.Background(), "not-an-email"), common.ErrInvalidEmail)
	require.ErrorIs(t, flow.Request(context.Background(), ""), common.ErrInvalidEmail)
	require.Zero(t, fc.SendOtpCalls)
	require.Equal(t, OtpIdle, flow.State())
}

func TestOtp_RequestFailureLeavesNoCountdown(t *testing.T) {
	fc := &fakeClient{SendOtpErr: &api.Error{Code: 5000, Message: "smtp down"}}
	flow, _ := newOtpFlow(t, fc)

	err := flow.Request(context.Background(), "user@example.com")
	require.Error(t, err)
	require.Equal(t, OtpIdle, flow.State())
	require.Zero(t, flow.Remaining())
}

func TestOtp_VerifyHappyPath(t *testing.T) {
	fc := &fakeClient{VerifyOtpRet: true}
	flow, _ := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	ok, err := flow.Verify(context.Background(), "123456")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, OtpVerified, flow.State())
	require.Equal(t, "user@example.com", fc.LastVerifyEmail)
	require.Equal(t, "123456", fc.LastVerifyCode)
}

func TestOtp_VerifyLocalRejections(t *testing.T) {
	fc := &fakeClient{}
	flow, _ := newOtpFlow(t, fc)

	_, err := flow.Verify(context.Background(), "123456")
	require.ErrorIs(t, err, common.ErrNoSession)

	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	_, err = flow.Verify(context.Background(), "   ")
	require.ErrorIs(t, err, common.ErrEmptyCode)
	require.Zero(t, fc.VerifyOtpCalls, "local rejections never reach the server")
}

func TestOtp_CountdownBoundary(t *testing.T) {
	fc := &fakeClient{VerifyOtpRet: true}
	flow, clock := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	// One second left: the code is still sent.
	clock.Advance(testOtpTTL - time.Second)
	require.Equal(t, 1, flow.Remaining())

	ok, err := flow.Verify(context.Background(), "123456")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, fc.VerifyOtpCalls)
}

func TestOtp_VerifyAtZeroIsRejectedLocally(t *testing.T) {
	fc := &fakeClient{VerifyOtpRet: true}
	flow, clock := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	clock.Advance(testOtpTTL)
	require.Zero(t, flow.Remaining())

	_, err := flow.Verify(context.Background(), "123456")
	require.ErrorIs(t, err, common.ErrCodeExpired)
	require.Zero(t, fc.VerifyOtpCalls)
}

func TestOtp_TickExpiresSession(t *testing.T) {
	fc := &fakeClient{}
	flow, clock := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	clock.Advance(testOtpTTL + time.Second)

	flow.mu.Lock()
	sid := flow.sessionID
	flow.mu.Unlock()

	require.True(t, flow.tick(sid), "expiry stops the watcher")
	require.Equal(t, OtpExpired, flow.State())

	// Resend stays available from EXPIRED.
	require.NoError(t, flow.Resend(context.Background()))
	require.Equal(t, OtpSent, flow.State())
	require.Equal(t, 300, flow.Remaining())
}

func TestOtp_StaleTickIsIgnored(t *testing.T) {
	fc := &fakeClient{}
	flow, clock := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	flow.mu.Lock()
	oldSid := flow.sessionID
	flow.mu.Unlock()

	require.NoError(t, flow.Resend(context.Background()))

	// Drive the ticks by hand so the real watcher can't interleave.
	flow.mu.Lock()
	flow.stopTickLocked()
	newSid := flow.sessionID
	flow.mu.Unlock()

	clock.Advance(testOtpTTL + time.Second)

	require.True(t, flow.tick(oldSid), "stale watcher stops without touching state")
	// The new session expired too, but only its own tick may say so.
	require.Equal(t, OtpSent, flow.State())

	require.True(t, flow.tick(newSid))
	require.Equal(t, OtpExpired, flow.State())
}

func TestOtp_WrongCodeKeepsCountdownRunning(t *testing.T) {
	fc := &fakeClient{VerifyOtpErr: &api.Error{Code: 4010, Message: "wrong code"}}
	flow, clock := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	clock.Advance(100 * time.Second)

	_, err := flow.Verify(context.Background(), "000000")
	require.Error(t, err)
	require.Equal(t, "wrong code", api.AlertMessage(err))
	require.Equal(t, OtpSent, flow.State(), "a failed attempt returns to SENT")
	require.Equal(t, 200, flow.Remaining(), "only an explicit resend resets the timer")
}

func TestOtp_ServerFalseResultMeansInvalidCode(t *testing.T) {
	fc := &fakeClient{VerifyOtpRet: false}
	flow, _ := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	_, err := flow.Verify(context.Background(), "999999")
	require.ErrorIs(t, err, common.ErrCodeInvalid)
	require.Equal(t, OtpSent, flow.State())
}

func TestOtp_ResendAfterExpiryAcceptsOldCodeAgain(t *testing.T) {
	fc := &fakeClient{VerifyOtpRet: true}
	flow, clock := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	// t = 301s: countdown is over, verify is refused locally.
	clock.Advance(testOtpTTL + time.Second)
	flow.mu.Lock()
	sid := flow.sessionID
	flow.mu.Unlock()
	require.True(t, flow.tick(sid))
	_, err := flow.Verify(context.Background(), "123456")
	require.ErrorIs(t, err, common.ErrCodeExpired)

	// Resend resets the window; the previously entered code can be
	// resubmitted before the new expiry.
	require.NoError(t, flow.Resend(context.Background()))
	require.Equal(t, 300, flow.Remaining())

	ok, err := flow.Verify(context.Background(), "123456")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOtp_CancelTearsDownSession(t *testing.T) {
	fc := &fakeClient{}
	flow, _ := newOtpFlow(t, fc)
	require.NoError(t, flow.Request(context.Background(), "user@example.com"))

	flow.Cancel()
	require.Equal(t, OtpIdle, flow.State())
	require.Zero(t, flow.Remaining())
	require.Empty(t, flow.Email())

	_, err := flow.Verify(context.Background(), "123456")
	require.ErrorIs(t, err, common.ErrNoSession)
}
