package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/swapmarket/internal/client/models"
	"github.com/dmitrijs2005/swapmarket/internal/common"
)

const requestTimeout = 12 * time.Second

// HTTPClient is the concrete Client speaking JSON envelopes over HTTP.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// SetAccessToken sets the bearer token attached to subsequent requests.
func (c *HTTPClient) SetAccessToken(token string) {
	c.accessToken = token
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do issues one request and decodes the envelope into out (out may be nil
// when the caller only cares about the code). A non-success envelope becomes
// *Error; everything below the envelope becomes ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env Envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	if !env.OK() {
		return &Error{Code: env.Code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decoding data: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	path := "/api/users/" + url.PathEscape(userID) + "/profile"
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) FollowUser(ctx context.Context, userID string) error {
	path := "/api/users/" + url.PathEscape(userID) + "/follow"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *HTTPClient) GetNotifications(ctx context.Context) ([]*models.Notification, error) {
	var list []*models.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	path := fmt.Sprintf("/api/notifications/%d/read", notificationID)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *HTTPClient) GetTrades(ctx context.Context) ([]*models.Trade, error) {
	var list []*models.Trade
	if err := c.do(ctx, http.MethodGet, "/api/trades", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CompleteTrade(ctx context.Context, tradeID string) error {
	path := "/api/trades/" + url.PathEscape(tradeID) + "/status"
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *HTTPClient) CreateReview(ctx context.Context, draft models.ReviewDraft) error {
	return c.do(ctx, http.MethodPost, "/api/reviews", draft, nil)
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code,omitempty"`
}

func (c *HTTPClient) SendOtp(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/otp/send", otpRequest{Email: email}, nil)
}

func (c *HTTPClient) VerifyOtp(ctx context.Context, email string, code string) (bool, error) {
	var ok bool
	err := c.do(ctx, http.MethodPost, "/api/auth/otp/verify", otpRequest{Email: email, Code: code}, &ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (c *HTTPClient) Register(ctx context.Context, email, nickname, password, code string) error {
	req := registerRequest{Email: email, Nickname: nickname, Password: password, Code: code}
	return c.do(ctx, http.MethodPost, "/api/auth/register", req, nil)
}
