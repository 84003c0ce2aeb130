// Package client is a typed Go client for the creator support API. It keeps the signed-in
// session in a pluggable key-value Storage.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"creator_support/internal/domain"

	"github.com/shopspring/decimal"
)

// Client calls the API and tracks the current Session
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    Storage

	mu      sync.RWMutex
	session *Session
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Storage Storage // Defaults to MemoryStorage
}

// New creates a client. Call Restore to pick up a previously stored session.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	st := cfg.Storage
	if st == nil {
		st = NewMemoryStorage()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		storage:    st,
	}
}

// APIError is a non-2xx answer from the API
type APIError struct {
	Status  int
	Message string `json:"message"`
	Code    string `json:"error"`
	Field   string `json:"field"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api: %d %s (%s)", e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// =============================================================================
// Request/Response Types
// =============================================================================

type SignUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileInput struct {
	Name            string `json:"name"`
	About           string `json:"about,omitempty"`
	AvatarImage     string `json:"avatarImage,omitempty"`
	SocialMediaURL  string `json:"socialMediaUrl,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	SuccessMessage  string `json:"successMessage,omitempty"`
	UserID          uint   `json:"userId"`
}

type BankCardInput struct {
	Country    string `json:"country"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVC        string `json:"cvc"`
	UserID     uint   `json:"userId"`
}

type DonationInput struct {
	Amount                  decimal.Decimal `json:"amount"`
	SpecialMessage          string          `json:"specialMessage,omitempty"`
	SocialURLOrBuyMeACoffee string          `json:"socialURLOrBuyMeACoffee,omitempty"`
	DonorID                 uint            `json:"donorId"`
	RecipientID             uint            `json:"recipientId"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// =============================================================================
// Session
// =============================================================================

// Session returns the current session, nil when signed out
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

func (c *Client) setSession(ctx context.Context, s *Session) error {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	if s == nil {
		return clearSession(ctx, c.storage)
	}
	return saveSession(ctx, c.storage, s)
}

// Restore reloads a stored token and checks it against the API. A rejected token clears storage
// and returns a nil session; other failures leave storage untouched.
func (c *Client) Restore(ctx context.Context) (*Session, error) {
	stored, err := loadSession(ctx, c.storage)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored == nil {
		return nil, nil
	}
	c.mu.Lock()
	c.session = stored
	c.mu.Unlock()

	user, err := c.GetMe(ctx)
	if IsUnauthorized(err) {
		return nil, c.setSession(ctx, nil)
	}
	if err != nil {
		return stored, err
	}
	s := &Session{Token: stored.Token, User: user}
	return s, c.setSession(ctx, s)
}

// =============================================================================
// Auth
// =============================================================================

// SignUp registers a user and starts a session
func (c *Client) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", in, &resp); err != nil {
		return nil, err
	}
	s := &Session{Token: resp.Token, User: resp.User}
	return s, c.setSession(ctx, s)
}

// SignIn starts a session for an existing user
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", body, &resp); err != nil {
		return nil, err
	}
	s := &Session{Token: resp.Token, User: resp.User}
	return s, c.setSession(ctx, s)
}

// GetMe loads the signed-in user's graph
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/getMe", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CheckUsername reports whether username is already taken
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	var resp struct {
		IsExist bool `json:"isExist"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/check-username", map[string]string{"username": username}, &resp); err != nil {
		return false, err
	}
	return resp.IsExist, nil
}

// ChangePassword replaces the password. The server revokes existing tokens, so the local
// session is dropped and the caller has to sign in again.
func (c *Client) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	if err := c.do(ctx, http.MethodPost, "/auth/change-password/"+idPath(userID), body, nil); err != nil {
		return err
	}
	return c.setSession(ctx, nil)
}

// SignOut revokes the session server-side and clears storage
func (c *Client) SignOut(ctx context.Context) error {
	var err error
	if c.token() != "" {
		err = c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
		if IsUnauthorized(err) {
			err = nil // Already invalid
		}
	}
	if clearErr := c.setSession(ctx, nil); clearErr != nil {
		return clearErr
	}
	return err
}

// =============================================================================
// Profile, bank card, donations
// =============================================================================

func (c *Client) CreateProfile(ctx context.Context, in ProfileInput) (*domain.Profile, error) {
	var resp struct {
		Data domain.Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/profile", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) GetProfile(ctx context.Context, userID uint) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.do(ctx, http.MethodGet, "/profile/"+idPath(userID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.Profile, error) {
	var resp struct {
		User domain.Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/profile/"+idPath(userID), upd, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) CreateBankCard(ctx context.Context, in BankCardInput) (*domain.BankCard, error) {
	var resp struct {
		BankCard domain.BankCard `json:"BankCard"`
	}
	if err := c.do(ctx, http.MethodPost, "/bankCard", in, &resp); err != nil {
		return nil, err
	}
	return &resp.BankCard, nil
}

func (c *Client) UpdateBankCard(ctx context.Context, id uint, upd domain.BankCardUpdate) (*domain.BankCard, error) {
	var resp struct {
		BankCard domain.BankCard `json:"bankCard"`
	}
	if err := c.do(ctx, http.MethodPut, "/bankCard/"+idPath(id), upd, &resp); err != nil {
		return nil, err
	}
	return &resp.BankCard, nil
}

func (c *Client) CreateDonation(ctx context.Context, in DonationInput) (*domain.Donation, error) {
	var resp struct {
		Donation domain.Donation `json:"Donation"`
	}
	if err := c.do(ctx, http.MethodPost, "/donation", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Donation, nil
}

// ListDonations returns what userID received, newest first. days is "30", "90", "all" or empty.
func (c *Client) ListDonations(ctx context.Context, userID uint, days string) ([]domain.Donation, error) {
	path := "/donation/" + idPath(userID)
	if days != "" {
		path += "?" + url.Values{"days": {days}}.Encode()
	}
	var resp struct {
		Donations []domain.Donation `json:"donations"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Donations, nil
}

func (c *Client) Earnings(ctx context.Context, userID uint, days string) (*domain.Earnings, error) {
	path := "/donation/" + idPath(userID) + "/earnings"
	if days != "" {
		path += "?" + url.Values{"days": {days}}.Encode()
	}
	var e domain.Earnings
	if err := c.do(ctx, http.MethodGet, path, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// =============================================================================
// Transport
// =============================================================================

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// The API reads the raw header value, no "Bearer " scheme
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func idPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
