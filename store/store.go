// Package store holds the in-memory projection of the user directory that
// screens consume: the record list, the selected record, and loading/error
// flags. Every operation runs through the same pending -> settled cycle the
// UI expects, and subscribers are notified on each state change.
package store

import (
	"sync"

	"user-directory/models"
)

// UserRepository is the persistence surface the container dispatches to.
type UserRepository interface {
	ListAll() []models.UserRecord
	GetByID(id string) (*models.UserRecord, error)
	Create(req models.CreateUserRequest) (*models.UserRecord, error)
	Update(id string, req models.UpdateUserRequest) (*models.UserRecord, error)
	Delete(id string) error
}

// State is the read-only snapshot exposed to consumers.
type State struct {
	Records []models.UserRecord `json:"records"`
	Current *models.UserRecord  `json:"current,omitempty"`
	Loading bool                `json:"loading"`
	Error   string              `json:"error,omitempty"`
}

// Store mediates between consumers and the repository. It caches the last
// known-good results; a failed operation records an error message and leaves
// the cached records and selection untouched.
type Store struct {
	mu          sync.RWMutex
	repo        UserRepository
	state       State
	subscribers map[int]chan State
	nextSubID   int
}

// New creates a state container over the given repository. One instance per
// running application is the intended lifecycle.
func New(repo UserRepository) *Store {
	return &Store{
		repo:        repo,
		state:       State{Records: []models.UserRecord{}},
		subscribers: make(map[int]chan State),
	}
}

// FetchUsers reloads the full record list from the repository.
func (s *Store) FetchUsers() []models.UserRecord {
	s.begin()

	users := s.repo.ListAll()

	s.mu.Lock()
	s.state.Loading = false
	s.state.Records = users
	s.mu.Unlock()
	s.notify()

	return users
}

// FetchUser loads one record by id and makes it the current selection.
func (s *Store) FetchUser(id string) (*models.UserRecord, error) {
	s.begin()

	user, err := s.repo.GetByID(id)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.state.Loading = false
	s.state.Current = user
	s.mu.Unlock()
	s.notify()

	return user, nil
}

// CreateUser creates a record and appends it to the cached list without a
// re-fetch.
func (s *Store) CreateUser(req models.CreateUserRequest) (*models.UserRecord, error) {
	s.begin()

	user, err := s.repo.Create(req)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.state.Loading = false
	s.state.Records = append(s.state.Records, *user)
	s.mu.Unlock()
	s.notify()

	return user, nil
}

// UpdateUser updates a record and replaces it in place in the cached list,
// preserving order. The current selection is replaced too when it matches.
func (s *Store) UpdateUser(id string, req models.UpdateUserRequest) (*models.UserRecord, error) {
	s.begin()

	user, err := s.repo.Update(id, req)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.state.Loading = false
	for i := range s.state.Records {
		if s.state.Records[i].ID == user.ID {
			s.state.Records[i] = *user
			break
		}
	}
	if s.state.Current != nil && s.state.Current.ID == user.ID {
		s.state.Current = user
	}
	s.mu.Unlock()
	s.notify()

	return user, nil
}

// DeleteUser deletes a record and drops it from the cached list. A matching
// current selection is cleared.
func (s *Store) DeleteUser(id string) error {
	s.begin()

	if err := s.repo.Delete(id); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.state.Loading = false
	records := s.state.Records[:0:0]
	for _, user := range s.state.Records {
		if user.ID != id {
			records = append(records, user)
		}
	}
	s.state.Records = records
	if s.state.Current != nil && s.state.Current.ID == id {
		s.state.Current = nil
	}
	s.mu.Unlock()
	s.notify()

	return nil
}

// ClearCurrent drops the current selection, used when leaving a detail view.
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	s.state.Current = nil
	s.mu.Unlock()
	s.notify()
}

// ClearError drops the visible error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a copy of the current state. The record slice and current
// selection are copied, so consumers can hold onto the snapshot freely.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers a listener that receives a state snapshot after every
// change. Slow listeners miss intermediate snapshots instead of blocking the
// container. The returned function cancels the subscription.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan State, 8)
	s.subscribers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
		s.mu.Unlock()
	}

	return ch, cancel
}

// begin marks an operation as pending: loading on, any prior error cleared
// immediately, even if it was still visible.
func (s *Store) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

// fail settles an operation as rejected. Records and selection are left
// exactly as they were.
func (s *Store) fail(err error) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = err.Error()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
	s.mu.RUnlock()
}

func (s *Store) snapshotLocked() State {
	snapshot := State{
		Records: make([]models.UserRecord, len(s.state.Records)),
		Loading: s.state.Loading,
		Error:   s.state.Error,
	}
	copy(snapshot.Records, s.state.Records)
	if s.state.Current != nil {
		current := *s.state.Current
		snapshot.Current = &current
	}
	return snapshot
}
