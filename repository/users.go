package repository

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"sync"
	"time"

	"user-directory/models"
	"user-directory/storage"
)

// usersKey is the single storage key holding the whole record collection.
const usersKey = "@users"

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// UserRepository is the sole reader/writer of the durable user collection.
// Every mutation is a whole-collection read-modify-write: the stored JSON
// array is read, rebuilt in memory and written back under one key. An
// internal mutex serializes those cycles so two in-process mutations cannot
// interleave into a torn write; completion order still decides the final
// state when callers race.
type UserRepository struct {
	mu     sync.Mutex
	store  storage.Provider
	logger *slog.Logger
}

// NewUserRepository creates a repository over the given blob store.
func NewUserRepository(store storage.Provider, logger *slog.Logger) *UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserRepository{store: store, logger: logger}
}

// ListAll returns every stored record in insertion order. A storage read
// failure degrades to an empty collection instead of propagating; the
// failure is only logged, so callers always get a usable list.
func (r *UserRepository) ListAll() []models.UserRecord {
	return r.loadAll()
}

// GetByID finds a record by exact id match.
func (r *UserRepository) GetByID(id string) (*models.UserRecord, error) {
	for _, user := range r.loadAll() {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// Create appends a new record with a generated id and persists the whole
// collection. CreatedAt and UpdatedAt are stamped with the same instant.
func (r *UserRepository) Create(req models.CreateUserRequest) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.loadAll()
	now := time.Now().UTC()

	user := models.UserRecord{
		ID:        newRecordID(now),
		Name:      req.Name,
		Email:     req.Email,
		Age:       req.Age,
		Gender:    req.Gender,
		DOB:       req.DOB,
		Avatar:    req.Avatar,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	users = append(users, user)
	if err := r.saveAll(users); err != nil {
		return nil, err
	}

	return &user, nil
}

// Update merges the non-nil fields of req over the stored record, keeps the
// original id no matter what, bumps UpdatedAt and persists. CreatedAt is
// never touched.
func (r *UserRepository) Update(id string, req models.UpdateUserRequest) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.loadAll()
	index := -1
	for i := range users {
		if users[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	user := users[index]
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.DOB != nil {
		user.DOB = *req.DOB
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	user.UpdatedAt = time.Now().UTC()

	users[index] = user
	if err := r.saveAll(users); err != nil {
		return nil, err
	}

	return &user, nil
}

// Delete removes the record with the given id and persists the reduced
// collection. Removal is destructive and immediate.
func (r *UserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.loadAll()
	filtered := users[:0:0]
	for _, user := range users {
		if user.ID != id {
			filtered = append(filtered, user)
		}
	}
	if len(filtered) == len(users) {
		return ErrNotFound
	}

	return r.saveAll(filtered)
}

func (r *UserRepository) loadAll() []models.UserRecord {
	data, ok, err := r.store.Get(usersKey)
	if err != nil {
		r.logger.Warn("failed to read user collection, treating as empty", "error", err)
		return []models.UserRecord{}
	}
	if !ok {
		return []models.UserRecord{}
	}

	var users []models.UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		r.logger.Warn("failed to decode user collection, treating as empty", "error", err)
		return []models.UserRecord{}
	}

	return users
}

func (r *UserRepository) saveAll(users []models.UserRecord) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := r.store.Put(usersKey, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// newRecordID builds ids like user_1700000000000_k3f9a1x0q: a millisecond
// timestamp plus a random suffix, making collisions practically impossible
// without a central counter.
func newRecordID(now time.Time) string {
	suffix := make([]byte, 9)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			n = big.NewInt(now.UnixNano() % int64(len(idAlphabet)))
		}
		suffix[i] = idAlphabet[n.Int64()]
	}
	return "user_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + string(suffix)
}
