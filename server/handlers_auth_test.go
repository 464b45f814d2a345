package server_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Run("valid credentials establish a session", func(t *testing.T) {
		f := setupTestFixture(t)
		cookie := f.login(t, customerUsername, customerPassword)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		require.Equal(t, 1, f.repo.Len())

		rec := f.do(t, http.MethodGet, "/dashboard", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Welcome, John Doe.")

		calls := f.backend.CallsTo(http.MethodGet, "/user/profile")
		require.Len(t, calls, 1)
		require.Equal(t, "Bearer "+customerToken, calls[0].Authorization)
	})

	t.Run("bad credentials show the backend message and keep the user out", func(t *testing.T) {
		f := setupTestFixture(t)
		rec := f.do(t, http.MethodPost, "/login", url.Values{"username": {customerUsername}, "password": {"wrong"}}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Invalid credentials")
		require.Contains(t, rec.Body.String(), `value="jdoe"`)
		require.Nil(t, sessionCookie(rec))
		require.Zero(t, f.repo.Len())
	})

	t.Run("missing fields are rejected locally", func(t *testing.T) {
		f := setupTestFixture(t)
		rec := f.do(t, http.MethodPost, "/login", url.Values{"username": {customerUsername}}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Empty(t, f.backend.Calls())
	})

	t.Run("logging in again replaces the previous session", func(t *testing.T) {
		f := setupTestFixture(t)
		first := f.login(t, customerUsername, customerPassword)

		rec := f.do(t, http.MethodPost, "/login", url.Values{"username": {adminUsername}, "password": {adminPassword}}, first)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		second := sessionCookie(rec)
		require.NotNil(t, second)
		require.NotEqual(t, first.Value, second.Value)
		require.Equal(t, 1, f.repo.Len())

		rec = f.do(t, http.MethodGet, "/dashboard", nil, first)
		require.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("login page redirects when already logged in", func(t *testing.T) {
		f := setupTestFixture(t)
		cookie := f.login(t, customerUsername, customerPassword)
		rec := f.do(t, http.MethodGet, "/login", nil, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})
}

func TestLogout(t *testing.T) {
	t.Run("clears the session", func(t *testing.T) {
		f := setupTestFixture(t)
		cookie := f.login(t, customerUsername, customerPassword)

		rec := f.do(t, http.MethodPost, "/logout", url.Values{}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
		require.Equal(t, "You have been logged out.", flash(rec, flashMessage))
		require.Negative(t, sessionCookie(rec).MaxAge)
		require.Zero(t, f.repo.Len())

		calls := f.backend.CallsTo(http.MethodPost, "/auth/logout")
		require.Len(t, calls, 1)
		require.Equal(t, "Bearer "+customerToken, calls[0].Authorization)
	})

	t.Run("backend failure still logs out locally", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.Respond(http.MethodPost, "/auth/logout", http.StatusInternalServerError, `{"detail":"boom"}`)
		cookie := f.login(t, customerUsername, customerPassword)

		rec := f.do(t, http.MethodPost, "/logout", url.Values{}, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Zero(t, f.repo.Len())

		rec = f.do(t, http.MethodGet, "/dashboard", nil, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestRegister(t *testing.T) {
	t.Run("success without a token sends the user to log in", func(t *testing.T) {
		f := setupTestFixture(t)
		rec := f.do(t, http.MethodPost, "/register", url.Values{
			"username":         {"newbie"},
			"email":            {"newbie@example.com"},
			"full_name":        {"New Bie"},
			"password":         {"s3cret"},
			"confirm_password": {"s3cret"},
		}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login?username=newbie", rec.Header().Get("Location"))
		require.Equal(t, "Registration successful. Please log in.", flash(rec, flashMessage))
		require.Nil(t, sessionCookie(rec))
		require.Len(t, f.backend.CallsTo(http.MethodPost, "/auth/register"), 1)

		f.login(t, "newbie", "s3cret")
	})

	t.Run("mismatched passwords never reach the backend", func(t *testing.T) {
		f := setupTestFixture(t)
		rec := f.do(t, http.MethodPost, "/register", url.Values{
			"username":         {"newbie"},
			"email":            {"newbie@example.com"},
			"password":         {"one"},
			"confirm_password": {"two"},
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Passwords do not match")
		require.Empty(t, f.backend.Calls())
	})

	t.Run("backend rejection is shown", func(t *testing.T) {
		f := setupTestFixture(t)
		rec := f.do(t, http.MethodPost, "/register", url.Values{
			"username":         {customerUsername},
			"email":            {"x@example.com"},
			"password":         {"pw"},
			"confirm_password": {"pw"},
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Username already registered")
	})
}
