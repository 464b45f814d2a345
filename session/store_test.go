package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	sferrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/models"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/jrsteele09/go-storefront/session/authfake"
	"github.com/stretchr/testify/require"
)

const (
	testSessionID = "session-1"
	testUsername  = "jdoe"
	testPassword  = "password123"
	testToken     = "opaque-token-1"
)

var testUser = models.User{ID: "7", Username: testUsername, Email: "john.doe@example.com", FullName: "John Doe"}

// testFixture holds all test dependencies
type testFixture struct {
	auth  *authfake.FakeAuthenticator
	repo  *session.InMemoryRepo
	store *session.Store
	now   time.Time
}

func setupTestFixture(t *testing.T, options ...session.StoreOption) *testFixture {
	t.Helper()

	f := &testFixture{
		auth: authfake.NewFakeAuthenticator(),
		now:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.auth.AddUser(testUser, testPassword, testToken)
	f.repo = session.NewInMemoryRepo(session.WithRepoNowTime(func() time.Time { return f.now }))

	opts := append([]session.StoreOption{session.WithNowTime(func() time.Time { return f.now })}, options...)
	store, err := session.NewStore(f.auth, f.repo, opts...)
	require.NoError(t, err)
	f.store = store
	return f
}

func TestNewStore_RequiresDependencies(t *testing.T) {
	_, err := session.NewStore(nil, session.NewInMemoryRepo())
	require.Error(t, err)
	require.True(t, errors.Is(err, sferrors.ErrInvalidConfig))

	_, err = session.NewStore(authfake.NewFakeAuthenticator(), nil)
	require.Error(t, err)
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials persist token and user", func(t *testing.T) {
		f := setupTestFixture(t)

		sess, err := f.store.Login(ctx, testSessionID, testUsername, testPassword)
		require.NoError(t, err)
		require.True(t, sess.Authenticated())
		require.Equal(t, testToken, sess.Token)
		require.Equal(t, testUser, sess.User)

		// A reload restores the same authenticated state
		restored, err := f.store.Restore(ctx, testSessionID)
		require.NoError(t, err)
		require.Equal(t, sess, restored)
	})

	t.Run("user fetched from profile when login omits it", func(t *testing.T) {
		f := setupTestFixture(t)
		f.auth.OmitUser = true

		sess, err := f.store.Login(ctx, testSessionID, testUsername, testPassword)
		require.NoError(t, err)
		require.Equal(t, testUser.Email, sess.User.Email)
	})

	t.Run("bad credentials leave state unauthenticated", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.store.Login(ctx, testSessionID, testUsername, "wrong")
		require.ErrorIs(t, err, authfake.ErrInvalidCredentials)

		_, err = f.store.Restore(ctx, testSessionID)
		require.ErrorIs(t, err, sferrors.ErrSessionNotFound)
	})

	t.Run("failed login keeps prior session", func(t *testing.T) {
		f := setupTestFixture(t)
		prior, err := f.store.Login(ctx, testSessionID, testUsername, testPassword)
		require.NoError(t, err)

		_, err = f.store.Login(ctx, testSessionID, testUsername, "wrong")
		require.Error(t, err)

		restored, err := f.store.Restore(ctx, testSessionID)
		require.NoError(t, err)
		require.Equal(t, prior, restored)
	})

	t.Run("empty session id rejected", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.store.Login(ctx, "", testUsername, testPassword)
		require.ErrorIs(t, err, sferrors.ErrInvalidSessionID)
	})

	t.Run("max age bounds expiry", func(t *testing.T) {
		f := setupTestFixture(t, session.WithMaxAge(time.Hour))
		sess, err := f.store.Login(ctx, testSessionID, testUsername, testPassword)
		require.NoError(t, err)
		require.Equal(t, f.now.Add(time.Hour), sess.ExpiresAt)
	})
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

func TestStore_LoginWithJWT(t *testing.T) {
	ctx := context.Background()

	t.Run("token expiry bounds the session", func(t *testing.T) {
		f := setupTestFixture(t)
		exp := f.now.Add(30 * time.Minute).Truncate(time.Second)
		f.auth.AddUser(models.User{Username: "jwt-user"}, "pw", signedToken(t, exp))

		sess, err := f.store.Login(ctx, testSessionID, "jwt-user", "pw")
		require.NoError(t, err)
		require.True(t, sess.ExpiresAt.Equal(exp))

		f.now = exp.Add(time.Second)
		_, err = f.store.Restore(ctx, testSessionID)
		require.Error(t, err)
		require.Equal(t, 0, f.repo.Len())
	})

	t.Run("already expired token refused", func(t *testing.T) {
		f := setupTestFixture(t)
		f.auth.AddUser(models.User{Username: "stale"}, "pw", signedToken(t, f.now.Add(-time.Minute)))

		_, err := f.store.Login(ctx, testSessionID, "stale", "pw")
		require.ErrorIs(t, err, sferrors.ErrTokenExpired)
	})
}

func TestStore_Register(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)

	sess, err := f.store.Register(ctx, testSessionID, models.RegisterRequest{Username: "newbie", Email: "n@example.com", Password: "pw"})
	require.NoError(t, err)
	require.False(t, sess.Authenticated())

	_, err = f.store.Register(ctx, testSessionID, models.RegisterRequest{Username: "newbie"})
	require.Error(t, err)
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears session and calls backend", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.store.Login(ctx, testSessionID, testUsername, testPassword)
		require.NoError(t, err)

		require.NoError(t, f.store.Logout(ctx, testSessionID))
		require.Equal(t, []string{testToken}, f.auth.LogoutCalls)

		_, err = f.store.Restore(ctx, testSessionID)
		require.ErrorIs(t, err, sferrors.ErrSessionNotFound)
	})

	t.Run("remote failure still clears session", func(t *testing.T) {
		f := setupTestFixture(t)
		f.auth.LogoutErr = errors.New("Logout failed")
		_, err := f.store.Login(ctx, testSessionID, testUsername, testPassword)
		require.NoError(t, err)

		require.NoError(t, f.store.Logout(ctx, testSessionID))
		require.Zero(t, f.repo.Len())
	})

	t.Run("unknown session is a no-op", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.Logout(ctx, "nobody"))
		require.NoError(t, f.store.Logout(ctx, ""))
		require.Empty(t, f.auth.LogoutCalls)
	})
}

func TestStore_Forget(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	_, err := f.store.Login(ctx, testSessionID, testUsername, testPassword)
	require.NoError(t, err)

	require.NoError(t, f.store.Forget(ctx, testSessionID))
	require.Zero(t, f.repo.Len())
	require.Empty(t, f.auth.LogoutCalls)
}

func TestStore_UpdateUser(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	before, err := f.store.Login(ctx, testSessionID, testUsername, testPassword)
	require.NoError(t, err)

	updated := testUser
	updated.FullName = "Johnny Doe"
	require.NoError(t, f.store.UpdateUser(ctx, testSessionID, updated))

	after, err := f.store.Restore(ctx, testSessionID)
	require.NoError(t, err)
	require.Equal(t, "Johnny Doe", after.User.FullName)
	require.Equal(t, before.Token, after.Token)
	require.Equal(t, before.ExpiresAt, after.ExpiresAt)

	require.ErrorIs(t, f.store.UpdateUser(ctx, "nobody", updated), sferrors.ErrSessionNotFound)
}

func TestContext(t *testing.T) {
	require.False(t, session.FromContext(context.Background()).Authenticated())

	ctx := session.NewContext(context.Background(), session.Session{ID: "x", Token: "t"})
	require.Equal(t, "t", session.FromContext(ctx).Token)
}

func TestTokenExpiry(t *testing.T) {
	_, ok := session.TokenExpiry("opaque")
	require.False(t, ok)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := session.TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	require.True(t, got.Equal(exp))
}
