// Package storage defines the persistence contracts the monitor relies on.
// It abstracts the durable subdomain store and transaction management so that
// different backends (e.g. PostgreSQL) can provide concrete implementations.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// AllStorage is the composite of all domain-specific storage capabilities the
// application uses.
type AllStorage interface {
	SubdomainStorage
}

// TxStorage is a storage handle bound to a database transaction. It exposes
// the same capabilities as AllStorage plus commit/rollback. Implementations
// become unusable after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage is a non-transactional handle with the ability to start
// transactions and manage the backend lifecycle.
type Storage interface {
	AllStorage

	// Close releases resources held by the backend (e.g. the connection
	// pool). The instance must not be used afterwards.
	Close() error

	// Begin starts a transaction and returns a TxStorage scoped to it.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, invokes the callback with a transactional
	// handle, commits on nil and rolls back on error.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
