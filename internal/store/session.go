package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"auctioneer/internal/api"
	"auctioneer/internal/model"

	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyLoggedIn = errors.New("already logged in")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrSessionBusy     = errors.New("a login or logout is already in progress")
)

// KV is the client-side key-value storage the session persists into.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Session is the authenticated user of this process. One is constructed at
// startup and handed to every store that needs it.
type Session struct {
	Lifecycle
	client    *api.Client
	kv        KV
	keyUserID string
	keyToken  string
	log       logrus.FieldLogger

	user *User
}

// NewSession creates a session and restores a persisted login from kv
// without checking it against the server.
func NewSession(client *api.Client, kv KV, keyPrefix string, log logrus.FieldLogger) *Session {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	s := &Session{
		client:    client,
		kv:        kv,
		keyUserID: keyPrefix + "userId",
		keyToken:  keyPrefix + "token",
		log:       log,
	}
	s.restore()
	return s
}

func (s *Session) restore() {
	if s.kv == nil {
		return
	}
	rawID, okID, err := s.kv.Get(s.keyUserID)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read stored user id")
		return
	}
	token, okToken, err := s.kv.Get(s.keyToken)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read stored token")
		return
	}
	if !okID || !okToken {
		return
	}
	userID, err := strconv.Atoi(rawID)
	if err != nil {
		s.log.WithField("value", rawID).Warn("Ignoring malformed stored user id")
		return
	}

	s.user = newUser(s.client, s, userID, token)
	s.log.WithField("user_id", userID).Info("Restored session")
}

// IsLoggedIn reports whether a user is logged in.
func (s *Session) IsLoggedIn() bool {
	return s.User() != nil
}

// User returns the logged-in user, nil when logged out.
func (s *Session) User() *User {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Token returns the session token, "" when logged out.
func (s *Session) Token() string {
	if u := s.User(); u != nil {
		return u.account.token
	}
	return ""
}

// Current returns the persisted id/token pair.
func (s *Session) Current() (model.Session, bool) {
	u := s.User()
	if u == nil {
		return model.Session{}, false
	}
	return model.Session{UserID: u.ID, Token: u.account.token}, true
}

// IsCurrentUser reports whether userID is the logged-in user.
func (s *Session) IsCurrentUser(userID int) bool {
	u := s.User()
	return u != nil && u.ID == userID
}

// UserFor returns the logged-in user when userID matches, else a read-only
// aggregate for userID.
func (s *Session) UserFor(userID int) *User {
	if u := s.User(); u != nil && u.ID == userID {
		return u
	}
	return newUser(s.client, s, userID, "")
}

// LogIn exchanges credentials for a session and persists it.
func (s *Session) LogIn(ctx context.Context, email, password string) error {
	if s.IsLoggedIn() {
		return ErrAlreadyLoggedIn
	}
	if !s.Begin() {
		return ErrSessionBusy
	}

	session, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.log.WithError(err).Info("Login rejected")
		s.Fail(err)
		return err
	}

	s.persist(session)
	user := newUser(s.client, s, session.UserID, session.Token)
	s.Succeed(func() { s.user = user })
	s.log.WithField("user_id", session.UserID).Info("Logged in")
	return nil
}

// LogOut ends the session on the server and forgets it locally. A token the
// server already considers invalid still counts as logged out.
func (s *Session) LogOut(ctx context.Context) error {
	u := s.User()
	if u == nil {
		return ErrNotLoggedIn
	}
	if !s.Begin() {
		return ErrSessionBusy
	}

	err := s.client.Logout(ctx, u.account.token)
	if err != nil && !api.IsUnauthorized(err) {
		s.log.WithError(err).Warn("Logout failed")
		s.Fail(err)
		return err
	}

	s.forget()
	s.Succeed(func() { s.user = nil })
	s.log.WithField("user_id", u.ID).Info("Logged out")
	return nil
}

// Expire forces a logout after the server rejected the session token. The
// local session is dropped even when the logout call fails.
func (s *Session) Expire(ctx context.Context) {
	if s == nil || !s.IsLoggedIn() {
		return
	}
	s.log.Info("Session rejected by server, logging out")

	if err := s.LogOut(ctx); err != nil {
		s.forget()
		s.mu.Lock()
		s.user = nil
		s.status = LoadStatus{}
		s.mu.Unlock()
		s.Notify()
	}
}

func (s *Session) persist(session model.Session) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(s.keyUserID, strconv.Itoa(session.UserID)); err != nil {
		s.log.WithError(err).Warn("Failed to persist user id")
	}
	if err := s.kv.Set(s.keyToken, session.Token); err != nil {
		s.log.WithError(err).Warn("Failed to persist token")
	}
}

func (s *Session) forget() {
	if s.kv == nil {
		return
	}
	for _, key := range []string{s.keyUserID, s.keyToken} {
		if err := s.kv.Delete(key); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("Failed to clear stored session")
		}
	}
}

// RequireToken returns the session token or an error wrapping ErrNotLoggedIn.
func (s *Session) RequireToken() (string, error) {
	token := s.Token()
	if token == "" {
		return "", fmt.Errorf("failed to authenticate request: %w", ErrNotLoggedIn)
	}
	return token, nil
}
