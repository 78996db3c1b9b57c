package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"ppob-wallet-go/internal/models"
)

// RegisterParams contains the fields for creating an account.
type RegisterParams struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Register creates a new account. No token is issued; callers log in next.
func (c *Client) Register(ctx context.Context, params RegisterParams) error {
	if err := c.do(ctx, http.MethodPost, "/registration", nil, params, nil, false); err != nil {
		return fmt.Errorf("unable to register: %w", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var data struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &data, false); err != nil {
		return "", fmt.Errorf("unable to login: %w", err)
	}
	return data.Token, nil
}

// GetProfile returns the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	var data models.Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, nil, &data, true); err != nil {
		return nil, fmt.Errorf("unable to get profile: %w", err)
	}
	return &data, nil
}

// UpdateProfile changes the profile name fields and returns the updated
// profile.
func (c *Client) UpdateProfile(ctx context.Context, firstName, lastName string) (*models.Profile, error) {
	body := struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}{FirstName: firstName, LastName: lastName}

	var data models.Profile
	if err := c.do(ctx, http.MethodPut, "/profile/update", nil, body, &data, true); err != nil {
		return nil, fmt.Errorf("unable to update profile: %w", err)
	}
	return &data, nil
}

// UpdateProfileImage uploads a new profile image as a multipart form and
// returns the updated profile.
func (c *Client) UpdateProfileImage(ctx context.Context, filename string, image io.Reader) (*models.Profile, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("unable to build image form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("unable to finalize image form: %w", err)
	}

	var data models.Profile
	if err := c.send(ctx, http.MethodPut, "/profile/image", nil, form.FormDataContentType(), &buf, &data, true); err != nil {
		return nil, fmt.Errorf("unable to update profile image: %w", err)
	}
	return &data, nil
}
