package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusResolved.Valid())
	assert.False(t, IssueStatus("Closed").Valid())
	assert.False(t, IssueStatus("").Valid())
	assert.False(t, IssueStatus("pending").Valid(), "statuses are case sensitive")
}

func TestIssueStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to IssueStatus
		ok       bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusResolved, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusPending, true},
		{StatusResolved, StatusPending, false},
		{StatusResolved, StatusInProgress, false},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusInProgress, false},
		{StatusResolved, StatusResolved, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestIssueManagedBy(t *testing.T) {
	i := &Issue{
		Updates: []IssueUpdate{
			{AuthorityID: "a1", Text: "dispatched"},
			{AuthorityID: "a1", Text: "fixed"},
		},
	}
	assert.True(t, i.ManagedBy("a1"))
	assert.False(t, i.ManagedBy("a2"))
	assert.False(t, (&Issue{}).ManagedBy("a1"))
}

func TestUserIsAuthority(t *testing.T) {
	assert.True(t, (&User{Type: UserTypeAuthority}).IsAuthority())
	assert.False(t, (&User{Type: UserTypeCitizen}).IsAuthority())
	assert.False(t, (&User{}).IsAuthority())
}
