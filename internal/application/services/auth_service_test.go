package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goaltracker/core/internal/adapters/filestore"
	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/config"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

func newAuthFixture(t *testing.T) (*AuthService, *UserService, *filestore.Store) {
	t.Helper()
	store, err := filestore.New(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	jwtCfg := config.JWTConfig{
		Secret:    "test-secret-key-for-signing",
		ExpiresIn: time.Hour,
		Issuer:    "goaltracker-test",
	}
	auth := NewAuthService(store.Users(), jwtCfg, logger.NewNop())
	users := NewUserService(store.Users(), logger.NewNop())
	return auth, users, store
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newAuthFixture(t)

	resp, err := auth.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := auth.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "other12"})
		assert.ErrorIs(t, err, entities.ErrUsernameTaken)
	})

	t.Run("login returns a valid token", func(t *testing.T) {
		resp, err := auth.Login(ctx, ports.LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)

		claims, err := auth.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("wrong password and unknown user look identical", func(t *testing.T) {
		_, err1 := auth.Login(ctx, ports.LoginRequest{Username: "alice", Password: "wrong"})
		_, err2 := auth.Login(ctx, ports.LoginRequest{Username: "nobody", Password: "wrong"})
		assert.ErrorIs(t, err1, entities.ErrInvalidCredentials)
		assert.ErrorIs(t, err2, entities.ErrInvalidCredentials)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := auth.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("registering with an api key stores it", func(t *testing.T) {
		resp, err := auth.Register(ctx, ports.RegisterRequest{Username: "bob", Password: "secret1", GrokAPIKey: "xai-key"})
		require.NoError(t, err)
		require.NotNil(t, resp.User.GrokAPIKey)
		assert.Equal(t, "xai-key", *resp.User.GrokAPIKey)
	})
}

func TestUserServicePassword(t *testing.T) {
	ctx := context.Background()
	auth, users, _ := newAuthFixture(t)

	resp, err := auth.Register(ctx, ports.RegisterRequest{Username: "carol", Password: "first-pass"})
	require.NoError(t, err)
	userID := resp.User.ID

	t.Run("wrong current password is rejected", func(t *testing.T) {
		err := users.ChangePassword(ctx, userID, ports.ChangePasswordRequest{
			CurrentPassword: "nope", NewPassword: "second-pass",
		})
		assert.ErrorIs(t, err, entities.ErrWrongPassword)
	})

	t.Run("change takes effect on the next login", func(t *testing.T) {
		require.NoError(t, users.ChangePassword(ctx, userID, ports.ChangePasswordRequest{
			CurrentPassword: "first-pass", NewPassword: "second-pass",
		}))

		_, err := auth.Login(ctx, ports.LoginRequest{Username: "carol", Password: "first-pass"})
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

		_, err = auth.Login(ctx, ports.LoginRequest{Username: "carol", Password: "second-pass"})
		assert.NoError(t, err)
	})
}

func TestUserServiceGrokKey(t *testing.T) {
	ctx := context.Background()
	auth, users, store := newAuthFixture(t)

	resp, err := auth.Register(ctx, ports.RegisterRequest{Username: "dave", Password: "secret1"})
	require.NoError(t, err)
	userID := resp.User.ID

	require.NoError(t, users.UpdateGrokKey(ctx, userID, ports.UpdateGrokKeyRequest{GrokAPIKey: "xai-abc"}))

	stored, err := store.Users().GetByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, stored.HasGrokKey())

	// Empty key clears the stored value.
	require.NoError(t, users.UpdateGrokKey(ctx, userID, ports.UpdateGrokKeyRequest{}))
	stored, err = store.Users().GetByID(ctx, userID)
	require.NoError(t, err)
	assert.False(t, stored.HasGrokKey())
}
