package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/netx"
)

const (
	pathToken   = "/auth/v1/token"
	pathLogout  = "/auth/v1/logout"
	pathUser    = "/auth/v1/user"
	pathHealth  = "/auth/v1/health"
	pathSubsRow = "/rest/v1/subscriptions"

	// acceptSingleObject asks PostgREST for exactly one row; zero rows yield
	// 406 with code PGRST116.
	acceptSingleObject = "application/vnd.pgrst.object+json"
	codeNoRows         = "PGRST116"
)

// SupabaseClient talks to a GoTrue + PostgREST backend over HTTPS.
type SupabaseClient struct {
	baseURL string
	anonKey string
	http    *http.Client
}

var _ Client = (*SupabaseClient)(nil)

// NewSupabaseClient returns a client for baseURL. A nil httpClient gets a
// client with a 10s timeout; per-call deadlines come from ctx.
func NewSupabaseClient(baseURL, anonKey string, httpClient *http.Client) *SupabaseClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SupabaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    httpClient,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u *userDTO) toModel() *models.User {
	return models.NewUser(u.ID, u.Email, u.UserMetadata)
}

type sessionDTO struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         *userDTO `json:"user"`
}

func (c *SupabaseClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out sessionDTO
	err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+pathToken+"?grant_type=password",
		c.header(""), signInRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, c.mapError(err)
	}
	if out.AccessToken == "" || out.User == nil || out.User.ID == "" {
		return nil, common.ErrNoSession
	}

	if out.User.Email == "" {
		out.User.Email = email
	}
	user := out.User.toModel()
	return &Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		User:         user,
	}, nil
}

func (c *SupabaseClient) SignOut(ctx context.Context, accessToken string) error {
	err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+pathLogout, c.header(accessToken), nil, nil)
	return c.mapError(err)
}

func (c *SupabaseClient) GetCurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	var out userDTO
	if err := netx.DoJSON(ctx, c.http, http.MethodGet, c.baseURL+pathUser, c.header(accessToken), nil, &out); err != nil {
		return nil, c.mapError(err)
	}
	if out.ID == "" {
		return nil, ErrUnauthorized
	}
	return out.toModel(), nil
}

func (c *SupabaseClient) GetSubscription(ctx context.Context, accessToken, userID string) (*models.Subscription, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+userID)

	h := c.header(accessToken)
	h.Set("Accept", acceptSingleObject)

	var out models.Subscription
	err := netx.DoJSON(ctx, c.http, http.MethodGet, c.baseURL+pathSubsRow+"?"+q.Encode(), h, nil, &out)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, c.mapError(err)
	}
	return &out, nil
}

func (c *SupabaseClient) Ping(ctx context.Context) error {
	return c.mapError(netx.DoJSON(ctx, c.http, http.MethodGet, c.baseURL+pathHealth, c.header(""), nil, nil))
}

// header carries the project key and the bearer token; requests without a
// user token authenticate with the anon key.
func (c *SupabaseClient) header(accessToken string) http.Header {
	if accessToken == "" {
		accessToken = c.anonKey
	}
	h := http.Header{}
	h.Set("apikey", c.anonKey)
	h.Set("Authorization", "Bearer "+accessToken)
	return h
}

func isNoRows(err error) bool {
	var se *netx.StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusNotAcceptable || strings.Contains(se.Body, codeNoRows)
}

func (c *SupabaseClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case se.Code == http.StatusBadRequest, se.Code == http.StatusUnauthorized,
		se.Code == http.StatusForbidden, se.Code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case se.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case se.Code == http.StatusRequestTimeout, se.Code == http.StatusTooManyRequests, se.Code >= 500:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("backend error: %w", err)
	}
}
