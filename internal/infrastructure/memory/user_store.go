package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/internal/domain/repository"
)

// UserStore is an insertion-ordered in-memory user collection. Lookups are
// linear scans; all access goes through the mutex because the HTTP runtime
// has concurrent writers.
type UserStore struct {
	mu      sync.RWMutex
	users   []*entity.User
	nextSeq int
}

// NewUserStore builds a store pre-populated with the given fixture users.
// Fixture ids are preserved; ids for later inserts continue the sequence.
func NewUserStore(seed []*entity.User) *UserStore {
	s := &UserStore{nextSeq: len(seed) + 1}
	for _, u := range seed {
		s.users = append(s.users, cloneUser(u))
	}
	return s
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (s *UserStore) Create(u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = fmt.Sprintf("u%d", s.nextSeq)
	}
	s.nextSeq++
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now().UTC()
	}
	s.users = append(s.users, cloneUser(u))
	return nil
}

func (s *UserStore) GetByID(id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetByEmail(email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetByUsername(username string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) UsernameExists(username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) EmailExists(email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) Update(u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.users {
		if cur.ID == u.ID {
			s.users[i] = cloneUser(u)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *UserStore) SetVerified(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.Verified = true
			return nil
		}
	}
	return repository.ErrNotFound
}

var _ repository.UserRepository = (*UserStore)(nil)
