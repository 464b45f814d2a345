package authfake

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-storefront/models"
	"github.com/jrsteele09/go-storefront/session"
)

// ErrInvalidCredentials mimics the backend's structured login failure.
var ErrInvalidCredentials = errors.New("Invalid credentials")

// FakeAuthenticator is an in-memory stand-in for the backend's auth endpoints.
type FakeAuthenticator struct {
	lock        sync.Mutex
	passwords   map[string]string      // username -> password
	users       map[string]models.User // username -> profile
	tokens      map[string]string      // token -> username
	LogoutErr   error                  // Returned by Logout when set
	OmitUser    bool                   // Leave the user out of login responses
	LogoutCalls []string               // Tokens passed to Logout
}

var _ session.Authenticator = (*FakeAuthenticator)(nil)

func NewFakeAuthenticator() *FakeAuthenticator {
	return &FakeAuthenticator{
		passwords: make(map[string]string),
		users:     make(map[string]models.User),
		tokens:    make(map[string]string),
	}
}

// AddUser registers a user that can log in with token.
func (f *FakeAuthenticator) AddUser(user models.User, password, token string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.passwords[user.Username] = password
	f.users[user.Username] = user
	f.tokens[token] = user.Username
}

func (f *FakeAuthenticator) tokenFor(username string) string {
	for token, name := range f.tokens {
		if name == username {
			return token
		}
	}
	return ""
}

func (f *FakeAuthenticator) Login(_ context.Context, username, password string) (*models.AuthResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if pw, ok := f.passwords[username]; !ok || pw != password {
		return nil, ErrInvalidCredentials
	}
	resp := &models.AuthResponse{AccessToken: f.tokenFor(username), TokenType: "bearer"}
	if !f.OmitUser {
		user := f.users[username]
		resp.User = &user
	}
	return resp, nil
}

// Register stores the user; it never issues a token.
func (f *FakeAuthenticator) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, exists := f.passwords[req.Username]; exists {
		return nil, errors.New("Username already registered")
	}
	f.passwords[req.Username] = req.Password
	f.users[req.Username] = models.User{Username: req.Username, Email: req.Email, FullName: req.FullName}
	return &models.AuthResponse{}, nil
}

func (f *FakeAuthenticator) Logout(_ context.Context, token string) (*models.Message, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.LogoutCalls = append(f.LogoutCalls, token)
	if f.LogoutErr != nil {
		return nil, f.LogoutErr
	}
	return &models.Message{Message: "Logged out"}, nil
}

func (f *FakeAuthenticator) GetUserProfile(_ context.Context, token string) (*models.User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	username, ok := f.tokens[token]
	if !ok {
		return nil, errors.New("Could not validate credentials")
	}
	user := f.users[username]
	return &user, nil
}
