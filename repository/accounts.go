package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"user-directory/models"
	"user-directory/storage"
)

// accountsKey holds the whole account collection, same blob model as @users.
const accountsKey = "@accounts"

// ErrAccountExists is returned when creating an account for a phone that is
// already registered.
var ErrAccountExists = errors.New("account already exists")

// AccountRepository stores registered logins keyed by phone number.
type AccountRepository struct {
	mu     sync.Mutex
	store  storage.Provider
	logger *slog.Logger
}

func NewAccountRepository(store storage.Provider, logger *slog.Logger) *AccountRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountRepository{store: store, logger: logger}
}

// GetByPhone finds an account by its E.164 phone number.
func (r *AccountRepository) GetByPhone(phone string) (*models.Account, error) {
	for _, acc := range r.loadAll() {
		if acc.Phone == phone {
			return toAccount(acc), nil
		}
	}
	return nil, ErrNotFound
}

// Create registers a new account. The phone must not be registered yet.
func (r *AccountRepository) Create(phone, passwordHash string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := r.loadAll()
	for _, acc := range accounts {
		if acc.Phone == phone {
			return nil, ErrAccountExists
		}
	}

	now := time.Now().UTC()
	stored := models.StoredAccount{
		ID:           uuid.New().String(),
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		LastLoginAt:  now,
	}

	accounts = append(accounts, stored)
	if err := r.saveAll(accounts); err != nil {
		return nil, err
	}

	return toAccount(stored), nil
}

// TouchLogin bumps LastLoginAt for the account with the given id.
func (r *AccountRepository) TouchLogin(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := r.loadAll()
	for i := range accounts {
		if accounts[i].ID == id {
			accounts[i].LastLoginAt = time.Now().UTC()
			return r.saveAll(accounts)
		}
	}
	return ErrNotFound
}

func (r *AccountRepository) loadAll() []models.StoredAccount {
	data, ok, err := r.store.Get(accountsKey)
	if err != nil {
		r.logger.Warn("failed to read account collection, treating as empty", "error", err)
		return []models.StoredAccount{}
	}
	if !ok {
		return []models.StoredAccount{}
	}

	var accounts []models.StoredAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		r.logger.Warn("failed to decode account collection, treating as empty", "error", err)
		return []models.StoredAccount{}
	}

	return accounts
}

func (r *AccountRepository) saveAll(accounts []models.StoredAccount) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := r.store.Put(accountsKey, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

func toAccount(s models.StoredAccount) *models.Account {
	return &models.Account{
		ID:           s.ID,
		Phone:        s.Phone,
		PasswordHash: s.PasswordHash,
		CreatedAt:    s.CreatedAt,
		LastLoginAt:  s.LastLoginAt,
	}
}
