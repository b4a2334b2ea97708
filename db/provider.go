package db

// DatabaseProvider abstracts the low-level key/value operations the treasury
// store needs, so the same store code runs on any backend.
type DatabaseProvider interface {
	// Get retrieves a value by key, returning (nil, nil) when the key is absent
	Get(key []byte) ([]byte, error)

	// GetBatch retrieves multiple values; absent keys are left out of the result
	GetBatch(keys [][]byte) (map[string][]byte, error)

	Put(key, value []byte) error

	Delete(key []byte) error

	Has(key []byte) (bool, error)

	Close() error

	// Batch returns a new batch for atomic operations
	Batch() DatabaseBatch
}

// IterableProvider extends DatabaseProvider with ordered prefix scans
type IterableProvider interface {
	DatabaseProvider

	// IteratePrefix visits every key with the given prefix in ascending key order.
	// The callback returns false to stop iteration.
	IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error
}

// DatabaseBatch collects writes that are committed all at once
type DatabaseBatch interface {
	Put(key, value []byte)

	Delete(key []byte)

	// Write commits all operations in the batch
	Write() error

	// Reset drops every queued operation
	Reset()

	// Close releases batch resources
	Close() error
}
