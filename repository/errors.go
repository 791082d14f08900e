package repository

import "errors"

// Sentinel errors returned by the repositories
var (
	ErrNotFound     = errors.New("user not found")
	ErrStorageWrite = errors.New("failed to persist collection")
)
