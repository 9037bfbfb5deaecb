// Package mem implements an in-memory reference transport. It enforces
// the authenticated mutable-entry protocol locally: signatures must
// verify, and per (publicKey, salt) cell the sequence number must
// advance by exactly one.
package mem

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/bitfinexcom/wasteland"
	"github.com/bitfinexcom/wasteland/transport"
)

// Origin is the tag stamped on records read from this transport.
const Origin = "memory"

var _ wasteland.Transport = &Transport{}

// Transport is a memory-based transport.
type Transport struct {
	mu      sync.Mutex
	records map[wasteland.Address]wasteland.Record
}

// New produces a new Transport.
func New() *Transport {
	return &Transport{records: make(map[wasteland.Address]wasteland.Record)}
}

// PutImmutable stores rec at the digest of its value.
func (t *Transport) PutImmutable(_ context.Context, rec wasteland.Record) (wasteland.Address, error) {
	addr := wasteland.ImmutableAddress(rec.V)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.records[addr]; !ok {
		t.records[addr] = wasteland.Record{V: rec.V, Salt: rec.Salt}
	}
	return addr, nil
}

// PutMutable stores rec at the digest of its public key and salt,
// verifying the signature and enforcing sequence monotonicity.
func (t *Transport) PutMutable(_ context.Context, rec wasteland.Record) (wasteland.Address, error) {
	if rec.Seq == nil {
		return wasteland.Zero, errors.New("mutable record without seq")
	}
	if err := wasteland.Verify(rec); err != nil {
		return wasteland.Zero, err
	}
	addr, err := wasteland.RecordAddress(rec)
	if err != nil {
		return wasteland.Zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if stored, ok := t.records[addr]; ok {
		if *rec.Seq != *stored.Seq+1 {
			return wasteland.Zero, errors.Wrapf(wasteland.ErrSeqConflict, "have seq %d, got %d", *stored.Seq, *rec.Seq)
		}
	}
	rec.ID = ""
	t.records[addr] = rec
	return addr, nil
}

// Get returns the stored record extended with the origin tag, or the
// bare sentinel when absent.
func (t *Transport) Get(_ context.Context, addr wasteland.Address) (wasteland.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[addr]
	if !ok {
		return wasteland.Record{ID: Origin}, wasteland.ErrNotFound
	}
	rec.ID = Origin
	return rec, nil
}

func init() {
	transport.Register("memory", func(context.Context, map[string]interface{}) (wasteland.Transport, error) {
		return New(), nil
	})
}
