package entity

import "time"

// IssueStatus is the lifecycle state of a reported issue.
type IssueStatus string

const (
	StatusPending    IssueStatus = "Pending"
	StatusInProgress IssueStatus = "In Progress"
	StatusResolved   IssueStatus = "Resolved"
)

// allowedTransitions is the forward-progress table for issue lifecycles.
// Resolved is terminal; InProgress may be re-opened back to Pending.
var allowedTransitions = map[IssueStatus][]IssueStatus{
	StatusPending:    {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved, StatusPending},
	StatusResolved:   {},
}

// Valid reports whether s is a known status value.
func (s IssueStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Coordinate is a WGS84 point attached to an issue report.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IssueUpdate is an immutable progress note appended by an authority
// whenever an issue's status changes. Updates are never edited or removed.
type IssueUpdate struct {
	AuthorityID string    `json:"updated_by"`
	Timestamp   time.Time `json:"timestamp"`
	Text        string    `json:"update_text"`
}

// Issue is a citizen-reported problem record.
//
// AuthorUsername and AuthorAvatar are snapshots of the author's profile taken
// at creation time; they are not refreshed when the profile changes.
type Issue struct {
	ID               string
	Title            string
	Description      string
	Tags             []string
	ImageURL         string
	Location         Coordinate
	Status           IssueStatus
	AuthorID         string
	AuthorUsername   string
	AuthorAvatar     string
	CreatedAt        time.Time
	Upvotes          int
	Reposts          int
	Updates          []IssueUpdate
	ResolvedImageURL string
}

// ManagedBy reports whether any update on the issue was authored by the
// given authority id.
func (i *Issue) ManagedBy(authorityID string) bool {
	for _, u := range i.Updates {
		if u.AuthorityID == authorityID {
			return true
		}
	}
	return false
}
