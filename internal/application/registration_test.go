package application

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/internal/domain/repository"
	"github.com/civicresolve/backend/internal/infrastructure/memory"
)

func newRegistrationFixture() (*RegistrationService, *UserService) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	users := memory.NewUserStore(memory.SampleUsers())
	reg := NewRegistrationService(
		users,
		memory.NewAadhaarDirectory(memory.SampleAadhaarIDs()),
		nil, nil, logger,
		"123456", "999999", 5, 0, "civic-resolve", false,
	)
	auth := NewUserService(users, testJWT(), nil, "", nil, logger)
	return reg, auth
}

func validStart() StartRegistrationInput {
	return StartRegistrationInput{
		Username: "new_reporter",
		Email:    "new.reporter@example.com",
		Mobile:   "9876501234",
		Password: "longenough",
	}
}

func TestStartRejectsDuplicates(t *testing.T) {
	reg, _ := newRegistrationFixture()
	ctx := context.Background()

	in := validStart()
	in.Username = "john_doe"
	_, err := reg.Start(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = validStart()
	in.Email = "john.doe@gmail.com"
	_, err = reg.Start(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	// Nothing was created by the rejected attempts.
	exists, err := reg.Users.UsernameExists(validStart().Username)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStartRejectsShortPassword(t *testing.T) {
	reg, _ := newRegistrationFixture()
	in := validStart()
	in.Password = "short"
	_, err := reg.Start(context.Background(), in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStartCreatesUnverifiedAccount(t *testing.T) {
	reg, _ := newRegistrationFixture()
	ctx := context.Background()

	st, err := reg.Start(ctx, validStart())
	require.NoError(t, err)
	assert.Equal(t, StageProfileSubmitted, st.Stage)
	assert.NotEmpty(t, st.UserID)

	u, err := reg.Users.GetByID(st.UserID)
	require.NoError(t, err)
	assert.False(t, u.Verified)
	assert.Equal(t, entity.UserTypeCitizen, u.Type)
	assert.NotEqual(t, "longenough", u.Password, "password is stored hashed")
}

func TestVerifyOTPEnforcesChannelOrder(t *testing.T) {
	reg, _ := newRegistrationFixture()
	ctx := context.Background()

	st, err := reg.Start(ctx, validStart())
	require.NoError(t, err)

	// Mobile before email is out of order.
	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelMobile, "999999")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	st, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "123456")
	require.NoError(t, err)
	assert.Equal(t, StageEmailVerified, st.Stage)

	// Email a second time is also out of order.
	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "123456")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	st, err = reg.VerifyOTP(ctx, st.UserID, ChannelMobile, "999999")
	require.NoError(t, err)
	assert.Equal(t, StageMobileVerified, st.Stage)
}

func TestVerifyOTPWrongCodeKeepsStage(t *testing.T) {
	reg, _ := newRegistrationFixture()
	ctx := context.Background()

	st, err := reg.Start(ctx, validStart())
	require.NoError(t, err)

	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "000000")
	assert.ErrorIs(t, err, ErrAuthFailure)

	// Still at the first stage, and the right code still works.
	got, err := reg.Status(ctx, st.UserID)
	require.NoError(t, err)
	assert.Equal(t, StageProfileSubmitted, got.Stage)

	got, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "123456")
	require.NoError(t, err)
	assert.Equal(t, StageEmailVerified, got.Stage)
}

func TestVerifyOTPLocksAfterTooManyFailures(t *testing.T) {
	reg, _ := newRegistrationFixture()
	ctx := context.Background()

	st, err := reg.Start(ctx, validStart())
	require.NoError(t, err)

	for k := 0; k < 4; k++ {
		_, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "000000")
		assert.ErrorIs(t, err, ErrAuthFailure)
	}
	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "000000")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// Locked for good, even with the right code.
	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "123456")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestVerifyAadhaarRequiresBothChannels(t *testing.T) {
	reg, _ := newRegistrationFixture()
	ctx := context.Background()

	st, err := reg.Start(ctx, validStart())
	require.NoError(t, err)

	_, err = reg.VerifyAadhaar(ctx, st.UserID, "123456789012")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestVerifyAadhaarRejectsUnknownID(t *testing.T) {
	reg, _ := newRegistrationFixture()
	ctx := context.Background()

	st, err := reg.Start(ctx, validStart())
	require.NoError(t, err)
	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "123456")
	require.NoError(t, err)
	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelMobile, "999999")
	require.NoError(t, err)

	_, err = reg.VerifyAadhaar(ctx, st.UserID, "000000000000")
	assert.ErrorIs(t, err, ErrAuthFailure)

	u, err := reg.Users.GetByID(st.UserID)
	require.NoError(t, err)
	assert.False(t, u.Verified)
}

func TestFullRegistrationThenLogin(t *testing.T) {
	reg, auth := newRegistrationFixture()
	ctx := context.Background()
	in := validStart()

	st, err := reg.Start(ctx, in)
	require.NoError(t, err)

	// Login is blocked until the workflow completes.
	_, err = auth.Authenticate(ctx, in.Email, in.Password)
	assert.ErrorIs(t, err, ErrNotVerified)

	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelEmail, "123456")
	require.NoError(t, err)
	_, err = reg.VerifyOTP(ctx, st.UserID, ChannelMobile, "999999")
	require.NoError(t, err)

	st, err = reg.VerifyAadhaar(ctx, st.UserID, "123456789012")
	require.NoError(t, err)
	assert.Equal(t, StageComplete, st.Stage)
	assert.True(t, st.Verified)

	u, err := auth.Authenticate(ctx, in.Email, in.Password)
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.Equal(t, "123456789012", u.Aadhaar)

	// The workflow record is gone; status now comes from the account.
	got, err := reg.Status(ctx, st.UserID)
	require.NoError(t, err)
	assert.Equal(t, StageComplete, got.Stage)
	assert.True(t, got.Verified)
}

func TestStatusUnknownUser(t *testing.T) {
	reg, _ := newRegistrationFixture()
	_, err := reg.Status(context.Background(), "u99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStartMintsRandomCodesWhenUnset(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	users := memory.NewUserStore(memory.SampleUsers())
	reg := NewRegistrationService(
		users,
		memory.NewAadhaarDirectory(memory.SampleAadhaarIDs()),
		nil, nil, logger,
		"", "", 5, 0, "civic-resolve", false,
	)
	ctx := context.Background()

	st, err := reg.Start(ctx, validStart())
	require.NoError(t, err)

	state, err := reg.loadState(ctx, st.UserID)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, state.EmailCode)
	assert.Regexp(t, `^\d{6}$`, state.MobileCode)

	got, err := reg.VerifyOTP(ctx, st.UserID, ChannelEmail, state.EmailCode)
	require.NoError(t, err)
	assert.Equal(t, StageEmailVerified, got.Stage)
	got, err = reg.VerifyOTP(ctx, st.UserID, ChannelMobile, state.MobileCode)
	require.NoError(t, err)
	assert.Equal(t, StageMobileVerified, got.Stage)
}
