package repository

import "github.com/civicresolve/backend/internal/domain/entity"

// IssueRepository defines the storage contract for issue reports.
//
// All list operations return issues sorted by creation time descending,
// breaking ties by insertion order (most recently inserted first). Create
// assigns the id and creation timestamp on the passed entity.
type IssueRepository interface {
	Create(i *entity.Issue) error
	GetByID(id string) (*entity.Issue, error)
	List() ([]*entity.Issue, error)
	ListByAuthor(authorID string) ([]*entity.Issue, error)
	// ListByAuthority returns issues carrying at least one update authored
	// by the given authority id, regardless of who reported them.
	ListByAuthority(authorityID string) ([]*entity.Issue, error)
	// Search matches term case-insensitively as a substring of the title,
	// description or any tag; an empty term matches everything. A non-empty
	// status narrows the result to that lifecycle state.
	Search(term string, status entity.IssueStatus) ([]*entity.Issue, error)
	Update(i *entity.Issue) error
	IncrementUpvotes(id string) (int, error)
	IncrementReposts(id string) (int, error)
}
