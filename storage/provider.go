package storage

// Provider is a durable key/value blob store. Each key holds one whole
// serialized collection; every Put replaces the previous value entirely.
type Provider interface {
	// Get returns the value stored under key. A missing key is not an
	// error: it returns (nil, false, nil).
	Get(key string) (value []byte, ok bool, err error)

	// Put replaces the value stored under key.
	Put(key string, value []byte) error

	// Delete removes the value stored under key. Deleting a missing key
	// is a no-op.
	Delete(key string) error

	Close() error
}
