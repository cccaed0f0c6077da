package application

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/internal/infrastructure/memory"
	"github.com/civicresolve/backend/pkg/helpers"
)

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
}

func newUserService() *UserService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewUserService(memory.NewUserStore(memory.SampleUsers()), testJWT(), nil, "", nil, logger)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc := newUserService()

	res, pair, err := svc.Login(context.Background(), "john.doe@gmail.com", memory.SamplePassword)
	require.NoError(t, err)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, "john_doe", res.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.NotEmpty(t, claims.SessionID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "john.doe@gmail.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", memory.SamplePassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "jane.smith@gmail.com", memory.SamplePassword)
	require.NoError(t, err)

	newPair, uid, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u2", uid)
	assert.NotEmpty(t, newPair.AccessToken)

	_, _, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "access tokens are signed with a different secret")
}

func TestAvailabilityChecks(t *testing.T) {
	svc := newUserService()

	free, err := svc.CheckUsernameUnique("john_doe")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.CheckUsernameUnique("totally_new")
	require.NoError(t, err)
	assert.True(t, free)

	free, err = svc.CheckEmailUnique("jane.smith@gmail.com")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.CheckEmailUnique("fresh@example.com")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	before, err := svc.GetProfile("u1")
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, "u1", UpdateProfileInput{Bio: "new bio"})
	require.NoError(t, err)
	assert.Equal(t, "new bio", u.Bio)
	assert.Equal(t, before.AvatarURL, u.AvatarURL)
	assert.Equal(t, before.Mobile, u.Mobile)
}
