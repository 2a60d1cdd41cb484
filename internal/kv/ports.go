package kv

import "context"

// Ports for the durable key-value persistence service.
//
// The ledger and session manager treat persistence as an opaque keyed
// store with get/set/remove semantics; backends are selected at startup
// by the backend factory.
type (
	Reader interface {
		// Get returns the stored value for key. ok is false when the
		// key is absent; absence is not an error.
		Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	}

	Writer interface {
		Set(ctx context.Context, key string, value []byte) error
		Remove(ctx context.Context, key string) error
	}

	// Store is the full persistence surface.
	Store interface {
		Reader
		Writer
	}
)

// Well-known keys used by the core components.
const (
	KeySession      = "session"
	KeyTransactions = "transactions"
)
