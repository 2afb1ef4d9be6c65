// ABOUTME: HTTP client for the mission-letter backend API
// ABOUTME: Attaches session cookies and normalizes error handling for all calls

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// ErrSessionExpired is returned when the backend rejects the session cookie
// on any call other than login itself.
var ErrSessionExpired = errors.New("session expired, log in again")

// Client is the API client for the mission-letter backend
type Client struct {
	baseURL          string
	httpClient       *http.Client
	onSessionExpired func()
}

// New creates a new API client with the given base URL.
// The client carries a cookie jar so the backend session survives
// across calls within one process.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnSessionExpired registers a hook invoked when a non-login call
// comes back 401. The session store uses it to drop the local record.
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

// Cookies returns the jar's cookies for the backend base URL
func (c *Client) Cookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// SetCookies seeds the jar with previously persisted session cookies
func (c *Client) SetCookies(cookies []*http.Cookie) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}
	c.httpClient.Jar.SetCookies(u, cookies)
}

// UserStatus represents the /user-status endpoint response
type UserStatus struct {
	Username  string `json:"username"`
	IsPremium bool   `json:"is_premium"`
}

// LoginResponse represents a successful /login response
type LoginResponse struct {
	IsPremium bool `json:"is_premium"`
}

// RegisterInput represents the /register request body
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientRecord represents one entry of the firm's client roster
type ClientRecord struct {
	ID              int    `json:"id,omitempty"`
	Denomination    string `json:"denomination"`
	LegalForm       string `json:"legal_form,omitempty"`
	Representative  string `json:"representative,omitempty"`
	TaxRegime       string `json:"tax_regime,omitempty"`
	VATSubject      bool   `json:"vat_subject"`
	SIREN           string `json:"siren,omitempty"`
	Address         string `json:"address,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	City            string `json:"city,omitempty"`
	FiscalYearStart string `json:"fiscal_year_start,omitempty"`
	FiscalYearEnd   string `json:"fiscal_year_end,omitempty"`
	ExpertName      string `json:"expert_name,omitempty"`
}

// CabinetRecord represents the firm profile stored at /mon-cabinet
type CabinetRecord struct {
	Name               string `json:"name"`
	Address            string `json:"address,omitempty"`
	PostalCode         string `json:"postal_code,omitempty"`
	City               string `json:"city,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	SIREN              string `json:"siren,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// CGVRecord represents the general-terms profile stored at /mes-cgv
type CGVRecord struct {
	PaymentDelayDays   int     `json:"payment_delay_days"`
	LatePenaltyPercent float64 `json:"late_penalty_percent"`
	DepositPercent     float64 `json:"deposit_percent"`
	PaymentMode        string  `json:"payment_mode,omitempty"`
	CourtCity          string  `json:"court_city,omitempty"`
}

// CheckoutSession represents the /create-checkout-session response
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
}

// ChatMessage is one turn of a chat conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents the /chat endpoint response
type ChatResponse struct {
	Response  string `json:"response"`
	MessageID string `json:"messageId"`
}

// ChatFeedbackInput represents the /chat/feedback request body
type ChatFeedbackInput struct {
	MessageID string `json:"messageId"`
	Feedback  string `json:"feedback"`
	Query     string `json:"query"`
	Response  string `json:"response"`
}

// errorResponse is the JSON error body the backend returns on failures
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues a JSON request against the backend. in is marshaled as the
// request body when non-nil; out is decoded from the response body when
// non-nil and the response carries content. A 401 on any path other than
// /login invalidates the local session through the registered hook.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && path != "/login" {
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse extracts the backend's error message, falling back
// to the raw status when the body is not the expected JSON shape.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		if errResp.Error != "" {
			return fmt.Errorf("backend error: %s", errResp.Error)
		}
		if errResp.Message != "" {
			return fmt.Errorf("backend error: %s", errResp.Message)
		}
	}
	return fmt.Errorf("backend returned status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// Register calls POST /register
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/register", input, nil)
}

// Login calls POST /login and returns the entitlement flag
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	in := map[string]string{"username": username, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout calls POST /logout
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// GetUserStatus calls GET /user-status
func (c *Client) GetUserStatus(ctx context.Context) (*UserStatus, error) {
	var out UserStatus
	if err := c.do(ctx, http.MethodGet, "/user-status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClients calls GET /clients
func (c *Client) ListClients(ctx context.Context) ([]ClientRecord, error) {
	var out []ClientRecord
	if err := c.do(ctx, http.MethodGet, "/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetClient calls GET /clients/{id}
func (c *Client) GetClient(ctx context.Context, id int) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClient calls POST /clients
func (c *Client) CreateClient(ctx context.Context, rec *ClientRecord) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.do(ctx, http.MethodPost, "/clients", rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClient calls PUT /clients/{id}
func (c *Client) UpdateClient(ctx context.Context, id int, rec *ClientRecord) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/clients/%d", id), rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClient calls DELETE /clients/{id}
func (c *Client) DeleteClient(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/clients/%d", id), nil, nil)
}

// GetCabinet calls GET /mon-cabinet
func (c *Client) GetCabinet(ctx context.Context) (*CabinetRecord, error) {
	var out CabinetRecord
	if err := c.do(ctx, http.MethodGet, "/mon-cabinet", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveCabinet calls POST /mon-cabinet
func (c *Client) SaveCabinet(ctx context.Context, rec *CabinetRecord) (*CabinetRecord, error) {
	var out CabinetRecord
	if err := c.do(ctx, http.MethodPost, "/mon-cabinet", rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCGV calls GET /mes-cgv
func (c *Client) GetCGV(ctx context.Context) (*CGVRecord, error) {
	var out CGVRecord
	if err := c.do(ctx, http.MethodGet, "/mes-cgv", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveCGV calls POST /mes-cgv
func (c *Client) SaveCGV(ctx context.Context, rec *CGVRecord) (*CGVRecord, error) {
	var out CGVRecord
	if err := c.do(ctx, http.MethodPost, "/mes-cgv", rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckoutSession calls POST /create-checkout-session
func (c *Client) CreateCheckoutSession(ctx context.Context) (*CheckoutSession, error) {
	var out CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/create-checkout-session", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat calls POST /chat with the conversation so far
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (*ChatResponse, error) {
	in := map[string][]ChatMessage{"messages": messages}
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChatFeedback calls POST /chat/feedback
func (c *Client) SendChatFeedback(ctx context.Context, input ChatFeedbackInput) error {
	return c.do(ctx, http.MethodPost, "/chat/feedback", input, nil)
}

// ForgotPassword calls POST /forgot_password
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	in := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/forgot_password", in, nil)
}

// ResetPassword calls POST /reset_password/{token}
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	in := map[string]string{"password": password}
	return c.do(ctx, http.MethodPost, "/reset_password/"+url.PathEscape(token), in, nil)
}
