package api

import (
	"context"
	"fmt"
	"net/http"

	"auctioneer/internal/model"
)

// Registration is the body of a register request.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UserPatch is a sparse user update. Nil fields are omitted.
type UserPatch struct {
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Email           *string `json:"email,omitempty"`
	Password        *string `json:"password,omitempty"`
	CurrentPassword *string `json:"currentPassword,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Password == nil && p.CurrentPassword == nil
}

// UserImagePath is the profile photo resource of a user.
func UserImagePath(userID int) string {
	return fmt.Sprintf("/users/%d/image", userID)
}

// Register creates an account and returns the new user id.
func (c *Client) Register(ctx context.Context, r Registration) (int, error) {
	var result struct {
		UserID int `json:"userId"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/users/register", "", r, &result); err != nil {
		return 0, err
	}
	return result.UserID, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var result struct {
		UserID int    `json:"userId"`
		Token  string `json:"token"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/users/login", "", body, &result); err != nil {
		return model.Session{}, err
	}
	return model.Session{UserID: result.UserID, Token: result.Token}, nil
}

// Logout ends the session identified by token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.sendJSON(ctx, http.MethodPost, "/users/logout", token, nil, nil)
}

// GetUser fetches a user's profile. token may be empty; when it belongs to
// the same user the email is included.
func (c *Client) GetUser(ctx context.Context, userID int, token string) (model.UserDetails, error) {
	var details model.UserDetails
	err := c.getJSON(ctx, fmt.Sprintf("/users/%d", userID), nil, token, &details)
	return details, err
}

// PatchUser applies a sparse update to a user.
func (c *Client) PatchUser(ctx context.Context, userID int, token string, patch UserPatch) error {
	return c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", userID), token, patch, nil)
}
