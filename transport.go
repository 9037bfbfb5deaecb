package wasteland

import "context"

// Transport is an address-keyed store with two write modes and one
// read. Individual entries are size-bounded; chunking of larger payloads
// happens above the transport, in the Backend.
type Transport interface {
	// PutImmutable stores a content-addressed record. The address is a
	// pure function of the record's value, so repeated calls with equal
	// content yield equal addresses.
	PutImmutable(ctx context.Context, rec Record) (Address, error)

	// PutMutable stores a fully signed record at the digest of its
	// public key and salt. The transport verifies the signature and
	// enforces seq monotonicity, rejecting with ErrInvalidSignature or
	// ErrSeqConflict.
	PutMutable(ctx context.Context, rec Record) (Address, error)

	// Get returns the most recent record at addr, or a sentinel record
	// carrying only the origin tag together with ErrNotFound.
	Get(ctx context.Context, addr Address) (Record, error)
}

// Lifecycle is implemented by transports that need starting and
// stopping, such as network connections.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
