package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/internal/domain/repository"
)

func testIssue(id, authorID string, createdAt time.Time) *entity.Issue {
	return &entity.Issue{
		ID:          id,
		Title:       "title " + id,
		Description: "description " + id,
		Status:      entity.StatusPending,
		AuthorID:    authorID,
		CreatedAt:   createdAt,
	}
}

func TestIssueStoreListNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	s := NewIssueStore([]*entity.Issue{
		testIssue("i1", "u1", now.Add(-3*time.Hour)),
		testIssue("i2", "u1", now.Add(-1*time.Hour)),
		testIssue("i3", "u2", now.Add(-2*time.Hour)),
	})

	out, err := s.List()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "i2", out[0].ID)
	assert.Equal(t, "i3", out[1].ID)
	assert.Equal(t, "i1", out[2].ID)
}

func TestIssueStoreEqualTimestampsNewestInsertFirst(t *testing.T) {
	ts := time.Now().UTC()
	s := NewIssueStore(nil)
	for _, id := range []string{"a", "b", "c"} {
		i := testIssue("", "u1", ts)
		i.Title = id
		require.NoError(t, s.Create(i))
	}

	out, err := s.List()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "c", out[0].Title)
	assert.Equal(t, "b", out[1].Title)
	assert.Equal(t, "a", out[2].Title)
}

func TestIssueStoreCreateAssignsSequentialIDs(t *testing.T) {
	s := NewIssueStore(SampleIssues())
	i := testIssue("", "u1", time.Time{})
	require.NoError(t, s.Create(i))
	assert.Equal(t, "i10", i.ID)
	assert.False(t, i.CreatedAt.IsZero())

	j := testIssue("", "u1", time.Time{})
	require.NoError(t, s.Create(j))
	assert.Equal(t, "i11", j.ID)
}

func TestIssueStoreGetByIDMiss(t *testing.T) {
	s := NewIssueStore(nil)
	_, err := s.GetByID("nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIssueStoreListByAuthor(t *testing.T) {
	s := NewIssueStore(SampleIssues())
	out, err := s.ListByAuthor("u2")
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, i := range out {
		assert.Equal(t, "u2", i.AuthorID)
	}
}

func TestIssueStoreListByAuthority(t *testing.T) {
	s := NewIssueStore(SampleIssues())

	out, err := s.ListByAuthority("a2")
	require.NoError(t, err)
	ids := make([]string, 0, len(out))
	for _, i := range out {
		ids = append(ids, i.ID)
	}
	// a2 posted updates on i5 and i6 only; authorship is irrelevant.
	assert.ElementsMatch(t, []string{"i5", "i6"}, ids)

	none, err := s.ListByAuthority("u1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIssueStoreSearch(t *testing.T) {
	s := NewIssueStore(SampleIssues())

	t.Run("term matches title case-insensitively", func(t *testing.T) {
		out, err := s.Search("pothole", "")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "i1", out[0].ID)
	})

	t.Run("term matches tags", func(t *testing.T) {
		out, err := s.Search("#park", "")
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("status narrows results", func(t *testing.T) {
		out, err := s.Search("#park", entity.StatusResolved)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "i3", out[0].ID)
	})

	t.Run("empty term with status filter", func(t *testing.T) {
		out, err := s.Search("", entity.StatusPending)
		require.NoError(t, err)
		assert.Len(t, out, 4)
	})

	t.Run("empty term and status returns everything", func(t *testing.T) {
		out, err := s.Search("", "")
		require.NoError(t, err)
		assert.Len(t, out, 9)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		out, err := s.Search("zeppelin", "")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestIssueStoreCounters(t *testing.T) {
	s := NewIssueStore(SampleIssues())

	before, err := s.GetByID("i1")
	require.NoError(t, err)

	for k := 1; k <= 3; k++ {
		n, err := s.IncrementUpvotes("i1")
		require.NoError(t, err)
		assert.Equal(t, before.Upvotes+k, n)
	}

	n, err := s.IncrementReposts("i1")
	require.NoError(t, err)
	assert.Equal(t, before.Reposts+1, n)

	_, err = s.IncrementUpvotes("missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIssueStoreReturnsClones(t *testing.T) {
	s := NewIssueStore(SampleIssues())
	a, err := s.GetByID("i1")
	require.NoError(t, err)
	a.Title = "mutated"
	a.Tags[0] = "#mutated"

	b, err := s.GetByID("i1")
	require.NoError(t, err)
	assert.Equal(t, "Large Pothole on Main Street", b.Title)
	assert.Equal(t, "#pothole", b.Tags[0])
}

func TestAadhaarDirectoryContains(t *testing.T) {
	d := NewAadhaarDirectory(SampleAadhaarIDs())

	ok, err := d.Contains("123456789012")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Contains("000000000000")
	require.NoError(t, err)
	assert.False(t, ok)
}
