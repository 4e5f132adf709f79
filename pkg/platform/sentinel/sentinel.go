// Package sentinel holds the storage-level facts that every store backend
// reports the same way. Services map them to domain errors; stores never
// return pkg/domain-errors themselves.
package sentinel

import "errors"

var (
	// ErrNotFound means no row matched the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed means a unique key (verification id, reference, wallet
	// reference, response per verification) rejected the write.
	ErrAlreadyUsed = errors.New("already used")
)
