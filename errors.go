package wasteland

import "errors"

// Error kinds for the distinguishable failure domains. Transports and
// the backend wrap these with context; match with errors.Is.
var (
	// ErrNotFound is returned when no record exists at an address.
	ErrNotFound = errors.New("not found")

	// ErrSeqConflict is returned for a mutable write whose seq is not
	// exactly one greater than the stored record's.
	ErrSeqConflict = errors.New("sequence conflict")

	// ErrInvalidSignature is returned when a mutable record's signature
	// does not verify under its public key.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrCapacityExceeded is returned when a payload would require a
	// pointer tree deeper than the configured indirection limit.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrNoKeys is returned for a mutable write on a backend with no
	// keypair configured.
	ErrNoKeys = errors.New("no keys set")

	// ErrNoTransport is returned at construction when no transport is
	// configured.
	ErrNoTransport = errors.New("no transport set")
)
