package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	loginPath        = "/auth/admin/login"
	refreshTokenPath = "/auth/admin/refresh-token"
	adminsPath       = "/admins"
	currentAdminPath = "/admins/me"
)

// LoginResponse is the token grant returned by the login endpoint
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AdminID     string `json:"admin_id"`
}

// AdminProfile is a read-only snapshot of an admin account
type AdminProfile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Login exchanges credentials for an access token using the OAuth password grant.
// On success the token and admin id are stored; on failure nothing is.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)
	form.Set("scope", "")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	var loginResp LoginResponse
	if err := c.do(ctx, loginPath, &loginResp,
		WithMethod(http.MethodPost),
		WithFormBody(form),
		WithoutAuthorization(),
	); err != nil {
		return nil, err
	}

	if loginResp.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	if err := c.store.Save(loginResp.AccessToken, loginResp.AdminID); err != nil {
		return nil, err
	}
	c.setCredential(loginResp.AccessToken, loginResp.AdminID)

	return &loginResp, nil
}

// Logout forgets the held token and clears the token store. The backend is not called.
func (c *Client) Logout() {
	c.setCredential("", "")
	if err := c.store.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear stored credentials")
	}
}

// RefreshToken trades the held token for a fresh one
func (c *Client) RefreshToken(ctx context.Context) (*LoginResponse, error) {
	var loginResp LoginResponse
	if err := c.do(ctx, refreshTokenPath, &loginResp, WithMethod(http.MethodPost)); err != nil {
		return nil, err
	}

	if loginResp.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	adminID := loginResp.AdminID
	if adminID == "" {
		adminID = c.AdminID()
	}

	if err := c.store.Save(loginResp.AccessToken, adminID); err != nil {
		return nil, err
	}
	c.setCredential(loginResp.AccessToken, adminID)

	return &loginResp, nil
}

// GetProfile fetches the profile of the logged in admin. A backend without a profile
// endpoint yields ErrProfileUnavailable.
func (c *Client) GetProfile(ctx context.Context) (*AdminProfile, error) {
	path := currentAdminPath
	if adminID := c.AdminID(); adminID != "" {
		path = fmt.Sprintf("%s/%s", adminsPath, url.PathEscape(adminID))
	}

	var profile AdminProfile
	if err := c.do(ctx, path, &profile); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
				return nil, fmt.Errorf("%w: %s", ErrProfileUnavailable, apiErr.Message)
			}
		}
		return nil, err
	}

	return &profile, nil
}

// ListAdmins returns every admin account (super admins only)
func (c *Client) ListAdmins(ctx context.Context) ([]AdminProfile, error) {
	var admins []AdminProfile
	if err := c.do(ctx, adminsPath, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}
