// Package gotrue is a minimal client for the GoTrue admin API used by the
// subscription administration tool. It authenticates with the service role
// key and must never be shipped to end users.
package gotrue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/netx"
)

const (
	pathAdminUsers = "/auth/v1/admin/users"

	// DefaultPerPage matches the GoTrue default page size.
	DefaultPerPage = 50
)

var (
	ErrUnauthorized = errors.New("service key rejected")
	ErrUnavailable  = errors.New("auth server unavailable")
	ErrUserExists   = errors.New("user already exists")
)

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func NewClient(baseURL, serviceKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http:       httpClient,
	}
}

type listUsersResponse struct {
	Users []User `json:"users"`
}

// ListUsers returns one page of users. Pages start at 1.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) ([]User, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out listUsersResponse
	err := netx.DoJSON(ctx, c.http, http.MethodGet, c.baseURL+pathAdminUsers+"?"+q.Encode(), c.header(), nil, &out)
	if err != nil {
		return nil, mapError(err)
	}
	return out.Users, nil
}

// FindUserByEmail walks the user pages until it finds email. The comparison
// ignores case. common.ErrorNotFound is returned when no user matches.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	for page := 1; ; page++ {
		users, err := c.ListUsers(ctx, page, DefaultPerPage)
		if err != nil {
			return nil, err
		}
		for i := range users {
			if strings.EqualFold(users[i].Email, email) {
				return &users[i], nil
			}
		}
		if len(users) < DefaultPerPage {
			return nil, common.ErrorNotFound
		}
	}
}

type createUserRequest struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	EmailConfirm bool           `json:"email_confirm"`
}

// CreateUser registers a confirmed user.
func (c *Client) CreateUser(ctx context.Context, email, password string, metadata map[string]any) (*User, error) {
	req := createUserRequest{Email: email, Password: password, UserMetadata: metadata, EmailConfirm: true}

	var out User
	if err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+pathAdminUsers, c.header(), req, &out); err != nil {
		var se *netx.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnprocessableEntity || se.Code == http.StatusConflict) &&
			strings.Contains(strings.ToLower(se.Body), "already") {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return nil, mapError(err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: empty user in response", ErrUnavailable)
	}
	return &out, nil
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("apikey", c.serviceKey)
	h.Set("Authorization", "Bearer "+c.serviceKey)
	return h
}

func mapError(err error) error {
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
	case se.Code == http.StatusUnauthorized, se.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case se.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %v", common.ErrorNotFound, err)
	case se.Code == http.StatusRequestTimeout, se.Code == http.StatusTooManyRequests, se.Code >= 500:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("auth admin error: %w", err)
	}
}
