package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/internal/domain/repository"
	"github.com/civicresolve/backend/pkg/helpers"
)

func TestUserStoreLookups(t *testing.T) {
	s := NewUserStore(SampleUsers())

	u, err := s.GetByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "john_doe", u.Username)
	assert.True(t, u.Verified)

	u, err = s.GetByEmail("officer.k@gov.in")
	require.NoError(t, err)
	assert.Equal(t, entity.UserTypeAuthority, u.Type)

	u, err = s.GetByUsername("jane_smith")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)

	_, err = s.GetByID("u99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserStoreExistenceChecks(t *testing.T) {
	s := NewUserStore(SampleUsers())

	ok, err := s.UsernameExists("john_doe")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.UsernameExists("nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.EmailExists("jane.smith@gmail.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.EmailExists("nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserStoreCreateContinuesSequence(t *testing.T) {
	s := NewUserStore(SampleUsers())
	u := &entity.User{Username: "newcomer", Email: "new@example.com", Type: entity.UserTypeCitizen}
	require.NoError(t, s.Create(u))
	assert.Equal(t, "u10", u.ID)
	assert.False(t, u.JoinedAt.IsZero())
}

func TestUserStoreSetVerified(t *testing.T) {
	s := NewUserStore(nil)
	u := &entity.User{Username: "fresh", Email: "fresh@example.com"}
	require.NoError(t, s.Create(u))
	require.False(t, u.Verified)

	require.NoError(t, s.SetVerified(u.ID))
	got, err := s.GetByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)

	assert.ErrorIs(t, s.SetVerified("missing"), repository.ErrNotFound)
}

func TestUserStoreUpdate(t *testing.T) {
	s := NewUserStore(SampleUsers())
	u, err := s.GetByID("u3")
	require.NoError(t, err)
	u.Bio = "changed"
	require.NoError(t, s.Update(u))

	got, err := s.GetByID("u3")
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Bio)
}

func TestSampleUsersAcceptSamplePassword(t *testing.T) {
	s := NewUserStore(SampleUsers())
	u, err := s.GetByEmail("john.doe@gmail.com")
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, SamplePassword))
	assert.False(t, helpers.CompareHashAndPassword(u.Password, "wrong"))
}
