package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/optimistic"
	"github.com/dmitrijs2005/swapmarket/internal/common"
	"github.com/dmitrijs2005/swapmarket/internal/logging"
)

// OtpState is the lifecycle of one verification session.
type OtpState string

const (
	OtpIdle      OtpState = "IDLE"
	OtpSent      OtpState = "SENT"
	OtpVerifying OtpState = "VERIFYING"
	OtpVerified  OtpState = "VERIFIED"
	OtpExpired   OtpState = "EXPIRED"
)

// OtpFlow is the time-bounded one-time-code exchange shared by the
// registration and password-reset screens.
//
// Exactly one session is active per flow. Each session carries a uuid that
// fences the countdown goroutine and late responses: a tick or a verify
// result that belongs to a replaced or torn-down session is ignored.
type OtpFlow struct {
	client   api.Client
	engine   *optimistic.Engine
	log      logging.Logger
	ttl      time.Duration
	validate *validator.Validate
	now      func() time.Time

	mu         sync.Mutex
	state      OtpState
	email      string
	sessionID  uuid.UUID
	expiresAt  time.Time
	cancelTick context.CancelFunc
}

// NewOtpFlow constructs an idle flow. ttl is the countdown duration of each
// session (the product default is 300s, see config.OtpTTL).
func NewOtpFlow(client api.Client, engine *optimistic.Engine, log logging.Logger, ttl time.Duration) *OtpFlow {
	return &OtpFlow{
		client:   client,
		engine:   engine,
		log:      log.With("component", "otp"),
		ttl:      ttl,
		validate: validator.New(),
		now:      time.Now,
		state:    OtpIdle,
	}
}

// Request sends a code to the address and, on success, starts a fresh
// session with a full countdown. On failure the current state is left
// untouched: a first request stays IDLE with no running countdown, a resend
// keeps the previous session usable until a new one replaces it.
func (f *OtpFlow) Request(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if f.validate.Var(email, "required,email") != nil {
		return common.ErrInvalidEmail
	}

	return f.engine.Run(ctx, "otp:request", optimistic.Mutation{
		Commit: func(ctx context.Context) error {
			if err := f.client.SendOtp(ctx, email); err != nil {
				return err
			}
			f.startSession(email)
			return nil
		},
	})
}

// Resend re-requests a code for the current session's address, replacing the
// countdown on success. Verify stays permitted against the previous session
// while the resend call is outstanding.
func (f *OtpFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	email := f.email
	f.mu.Unlock()
	if email == "" {
		return common.ErrNoSession
	}
	return f.Request(ctx, email)
}

// startSession replaces the active session and starts its countdown ticker.
func (f *OtpFlow) startSession(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopTickLocked()
	f.state = OtpSent
	f.email = email
	f.sessionID = uuid.New()
	f.expiresAt = f.now().Add(f.ttl)

	ctx, cancel := context.WithCancel(context.Background())
	f.cancelTick = cancel
	go f.watchCountdown(ctx, f.sessionID)
}

// watchCountdown ticks once per second until the session expires, is
// replaced, or is torn down.
func (f *OtpFlow) watchCountdown(ctx context.Context, sid uuid.UUID) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if f.tick(sid) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// tick transitions SENT to EXPIRED once the deadline passes. Returns true
// when the watcher should stop. Ticks of a stale session are ignored.
func (f *OtpFlow) tick(sid uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sid != f.sessionID {
		return true
	}
	if f.state != OtpSent {
		return f.state != OtpVerifying
	}
	if !f.now().Before(f.expiresAt) {
		f.state = OtpExpired
		return true
	}
	return false
}

// Verify submits the entered code for the active session.
//
// Local rejections that never reach the network: no session, empty code,
// expired session (verify is refused at remaining zero but still sent at
// remaining one second). A server-side rejection surfaces as an inline error
// and leaves the countdown running; only resend resets the timer. A result
// arriving for a torn-down session is dropped.
func (f *OtpFlow) Verify(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)

	f.mu.Lock()
	switch {
	case f.state == OtpIdle || f.state == OtpVerified:
		f.mu.Unlock()
		return false, common.ErrNoSession
	case f.state == OtpVerifying:
		f.mu.Unlock()
		return false, optimistic.ErrInFlight
	case code == "":
		f.mu.Unlock()
		return false, common.ErrEmptyCode
	case f.state == OtpExpired || !f.now().Before(f.expiresAt):
		f.mu.Unlock()
		return false, common.ErrCodeExpired
	}
	sid := f.sessionID
	email := f.email
	f.state = OtpVerifying
	f.mu.Unlock()

	var verified bool
	err := f.engine.Run(ctx, "otp:verify", optimistic.Mutation{
		Commit: func(ctx context.Context) error {
			ok, err := f.client.VerifyOtp(ctx, email, code)
			if err != nil {
				return err
			}
			if !ok {
				return common.ErrCodeInvalid
			}
			verified = true
			return nil
		},
	})

	f.mu.Lock()
	defer f.mu.Unlock()

	if sid != f.sessionID {
		// Session was replaced or cancelled while the call was in flight.
		f.log.Debug(ctx, "dropping verify result for stale session")
		return false, nil
	}
	if err != nil {
		if f.state == OtpVerifying {
			f.state = OtpSent
		}
		return false, err
	}
	if verified {
		f.stopTickLocked()
		f.state = OtpVerified
		return true, nil
	}
	return false, nil
}

// Cancel tears the session down with no server call: code state, timer, and
// session identity are cleared and the countdown goroutine is stopped.
func (f *OtpFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopTickLocked()
	f.state = OtpIdle
	f.email = ""
	f.sessionID = uuid.Nil
	f.expiresAt = time.Time{}
}

func (f *OtpFlow) stopTickLocked() {
	if f.cancelTick != nil {
		f.cancelTick()
		f.cancelTick = nil
	}
}

// State returns the current lifecycle state.
func (f *OtpFlow) State() OtpState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Email returns the address of the active session, if any.
func (f *OtpFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Remaining returns the whole seconds left on the countdown, zero once the
// session expired or none is active.
func (f *OtpFlow) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != OtpSent && f.state != OtpVerifying {
		return 0
	}
	left := f.expiresAt.Sub(f.now())
	if left <= 0 {
		return 0
	}
	return int(left / time.Second)
}
