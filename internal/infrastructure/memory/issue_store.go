package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/internal/domain/repository"
)

// IssueStore is an insertion-ordered in-memory issue collection. New issues
// are prepended, so equal creation timestamps list most-recent-insert first.
type IssueStore struct {
	mu      sync.RWMutex
	issues  []*entity.Issue
	nextSeq int
}

// NewIssueStore builds a store pre-populated with the given fixture issues.
func NewIssueStore(seed []*entity.Issue) *IssueStore {
	s := &IssueStore{nextSeq: len(seed) + 1}
	for _, i := range seed {
		s.issues = append(s.issues, cloneIssue(i))
	}
	return s
}

func cloneIssue(i *entity.Issue) *entity.Issue {
	c := *i
	c.Tags = append([]string(nil), i.Tags...)
	c.Updates = append([]entity.IssueUpdate(nil), i.Updates...)
	return &c
}

func (s *IssueStore) Create(i *entity.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID == "" {
		i.ID = fmt.Sprintf("i%d", s.nextSeq)
	}
	s.nextSeq++
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	s.issues = append([]*entity.Issue{cloneIssue(i)}, s.issues...)
	return nil
}

func (s *IssueStore) GetByID(id string) (*entity.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.find(id)
	if i == nil {
		return nil, repository.ErrNotFound
	}
	return cloneIssue(i), nil
}

// find must be called with the lock held.
func (s *IssueStore) find(id string) *entity.Issue {
	for _, i := range s.issues {
		if i.ID == id {
			return i
		}
	}
	return nil
}

func (s *IssueStore) List() ([]*entity.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(*entity.Issue) bool { return true }), nil
}

func (s *IssueStore) ListByAuthor(authorID string) ([]*entity.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(i *entity.Issue) bool { return i.AuthorID == authorID }), nil
}

func (s *IssueStore) ListByAuthority(authorityID string) ([]*entity.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(i *entity.Issue) bool { return i.ManagedBy(authorityID) }), nil
}

func (s *IssueStore) Search(term string, status entity.IssueStatus) ([]*entity.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(term))
	return s.sorted(func(i *entity.Issue) bool {
		if status != "" && i.Status != status {
			return false
		}
		if needle == "" {
			return true
		}
		return matchesIssue(i, needle)
	}), nil
}

func matchesIssue(i *entity.Issue, needle string) bool {
	if strings.Contains(strings.ToLower(i.Title), needle) ||
		strings.Contains(strings.ToLower(i.Description), needle) {
		return true
	}
	for _, t := range i.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// sorted filters and returns clones ordered by creation time descending.
// The slice is kept most-recent-insert first, so the stable sort preserves
// insertion order between equal timestamps. Must be called with the lock held.
func (s *IssueStore) sorted(keep func(*entity.Issue) bool) []*entity.Issue {
	out := make([]*entity.Issue, 0, len(s.issues))
	for _, i := range s.issues {
		if keep(i) {
			out = append(out, cloneIssue(i))
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

func (s *IssueStore) Update(i *entity.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, cur := range s.issues {
		if cur.ID == i.ID {
			s.issues[idx] = cloneIssue(i)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *IssueStore) IncrementUpvotes(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i == nil {
		return 0, repository.ErrNotFound
	}
	i.Upvotes++
	return i.Upvotes, nil
}

func (s *IssueStore) IncrementReposts(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i == nil {
		return 0, repository.ErrNotFound
	}
	i.Reposts++
	return i.Reposts, nil
}

var _ repository.IssueRepository = (*IssueStore)(nil)

// AadhaarDirectory is a closed allow-list of national id numbers.
type AadhaarDirectory struct {
	ids map[string]struct{}
}

// NewAadhaarDirectory builds a directory from the given id numbers.
func NewAadhaarDirectory(ids []string) *AadhaarDirectory {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return &AadhaarDirectory{ids: m}
}

func (d *AadhaarDirectory) Contains(nationalID string) (bool, error) {
	_, ok := d.ids[nationalID]
	return ok, nil
}

var _ repository.AadhaarDirectory = (*AadhaarDirectory)(nil)
