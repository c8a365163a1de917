// Package devserver is a development stub of the marketplace backend. It
// serves the envelope contract from in-memory state so the client can be
// exercised without the real service: integration tests mount Handler() on
// an httptest server, and cmd/devserver runs it standalone.
//
// Faithfulness notes: domain endpoints answer code 1000, the follow endpoint
// answers its historical code 200, and the trade flags are flipped the way
// the real backend does (completing a trade grants canRate to both sides).
// There is no persistence and no real auth.
package devserver

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/swapmarket/internal/client/models"
)

const (
	codeOK       = 1000
	codeOKLegacy = 200
)

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Code: codeOK, Data: data})
}

func fail(c echo.Context, code int, message string) error {
	// The backend reports failures in the envelope, not via HTTP status.
	return c.JSON(http.StatusOK, envelope{Code: code, Message: message})
}

// Server holds the stub's in-memory state.
type Server struct {
	mu            sync.Mutex
	profiles      map[string]*models.Profile
	notifications []*models.Notification
	trades        map[string]*models.Trade
	otpCodes      map[string]string
}

func New() *Server {
	return &Server{
		profiles: make(map[string]*models.Profile),
		trades:   make(map[string]*models.Trade),
		otpCodes: make(map[string]string),
	}
}

// Seed helpers used by tests and the standalone binary.

func (s *Server) SeedProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.profiles[p.UserID] = &cp
}

func (s *Server) SeedNotification(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := n
	s.notifications = append(s.notifications, &cp)
}

func (s *Server) SeedTrade(t models.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := t
	s.trades[t.TradeID] = &cp
}

// SeedOtp fixes the code the stub will accept for an address.
func (s *Server) SeedOtp(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otpCodes[email] = code
}

// Handler builds the echo handler serving the envelope API.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	api := e.Group("/api")
	api.GET("/users/:id/profile", s.getProfile)
	api.POST("/users/:id/follow", s.followUser)
	api.GET("/notifications", s.getNotifications)
	api.PUT("/notifications/:id/read", s.markNotificationRead)
	api.GET("/trades", s.getTrades)
	api.PUT("/trades/:id/status", s.completeTrade)
	api.POST("/reviews", s.createReview)
	api.POST("/auth/otp/send", s.sendOtp)
	api.POST("/auth/otp/verify", s.verifyOtp)
	api.POST("/auth/register", s.register)

	return e
}

func (s *Server) getProfile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, found := s.profiles[c.Param("id")]
	if !found {
		return fail(c, 4004, "user not found")
	}
	return ok(c, p)
}

// followUser toggles the follow edge based on the stored relationship. This
// endpoint keeps the legacy 200 success code.
func (s *Server) followUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, found := s.profiles[c.Param("id")]
	if !found {
		return fail(c, 4004, "user not found")
	}

	switch p.Relationship {
	case models.RelationshipSelf:
		return fail(c, 4003, "cannot follow yourself")
	case models.RelationshipFollowing:
		p.Relationship = models.RelationshipNotFollowing
		p.FollowerCount--
	default:
		p.Relationship = models.RelationshipFollowing
		p.FollowerCount++
	}
	return c.JSON(http.StatusOK, envelope{Code: codeOKLegacy})
}

func (s *Server) getNotifications(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ok(c, s.notifications)
}

func (s *Server) markNotificationRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, 4000, "invalid notification id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			return ok(c, nil)
		}
	}
	return fail(c, 4004, "notification not found")
}

func (s *Server) getTrades(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stable order for a map-backed store.
	list := make([]*models.Trade, 0, len(s.trades))
	for _, t := range s.trades {
		list = append(list, t)
	}
	sortTrades(list)
	return ok(c, list)
}

func sortTrades(list []*models.Trade) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j-1].TradeID > list[j].TradeID; j-- {
			list[j-1], list[j] = list[j], list[j-1]
		}
	}
}

func (s *Server) completeTrade(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, found := s.trades[c.Param("id")]
	if !found {
		return fail(c, 4004, "trade not found")
	}
	if !t.CanComplete {
		return fail(c, 4009, "trade is not completable")
	}

	t.Status = "COMPLETED"
	t.CanComplete = false
	t.CanRate = true
	return ok(c, nil)
}

type reviewRequest struct {
	TradeID        string `json:"tradeId"`
	ReviewedUserID string `json:"reviewedId"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
}

func (s *Server) createReview(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 4000, "invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, found := s.trades[req.TradeID]
	if !found {
		return fail(c, 4004, "trade not found")
	}
	if t.Reviewed {
		return fail(c, 4010, "trade already reviewed")
	}
	if !t.CanRate {
		return fail(c, 4009, "trade is not awaiting review")
	}
	if req.Comment == "" || req.Rating < 1 || req.Rating > 5 {
		return fail(c, 4000, "invalid review")
	}

	t.Reviewed = true
	t.CanRate = false
	return ok(c, nil)
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (s *Server) sendOtp(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return fail(c, 4000, "invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, fixed := s.otpCodes[req.Email]; !fixed {
		s.otpCodes[req.Email] = "123456"
	}
	return ok(c, nil)
}

func (s *Server) verifyOtp(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 4000, "invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	want, found := s.otpCodes[req.Email]
	if !found {
		return fail(c, 4010, "no code requested for this address")
	}
	if req.Code != want {
		return fail(c, 4010, "wrong code")
	}
	return ok(c, true)
}

type registerRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 4000, "invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	want, found := s.otpCodes[req.Email]
	if !found || req.Code != want {
		return fail(c, 4010, "email not verified")
	}
	if req.Nickname == "" || req.Password == "" {
		return fail(c, 4000, "nickname and password are required")
	}
	delete(s.otpCodes, req.Email)
	return ok(c, nil)
}
