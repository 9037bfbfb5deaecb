package wasteland

import (
	"context"

	"github.com/pkg/errors"
)

// Defaults for Config fields left zero.
const (
	DefaultMaxIndirections    = 2
	DefaultBufferSizeLimit    = 1000
	DefaultConcurrentRequests = 5
)

// Config configures a Backend.
type Config struct {
	// Transport is required.
	Transport Transport

	// Keys is the keypair for mutable writes. Immutable writes work
	// without it.
	Keys *Keys

	// MaxIndirections is the maximum pointer-tree depth.
	MaxIndirections int

	// BufferSizeLimit is the maximum record value length in bytes.
	BufferSizeLimit int

	// AddressSize is the rendered transport address width, in
	// characters. It enters the fan-out computation.
	AddressSize int

	// ConcurrentRequests caps in-flight transport operations per tree
	// level.
	ConcurrentRequests int
}

// Backend orchestrates slicing and pointer-tree construction on write,
// and transport reads plus reassembly on read.
type Backend struct {
	t       Transport
	keys    *Keys
	maxInd  int
	bufSize int
	conc    int
	k       int // fan-out: child addresses per pointer buffer
}

// New produces a Backend from conf, applying defaults for zero fields.
func New(conf Config) (*Backend, error) {
	if conf.Transport == nil {
		return nil, ErrNoTransport
	}
	b := &Backend{
		t:       conf.Transport,
		keys:    conf.Keys,
		maxInd:  conf.MaxIndirections,
		bufSize: conf.BufferSizeLimit,
		conc:    conf.ConcurrentRequests,
	}
	if b.maxInd == 0 {
		b.maxInd = DefaultMaxIndirections
	}
	if b.bufSize == 0 {
		b.bufSize = DefaultBufferSizeLimit
	}
	if b.conc == 0 {
		b.conc = DefaultConcurrentRequests
	}
	addrSize := conf.AddressSize
	if addrSize == 0 {
		addrSize = AddressSize
	}
	b.k = fanout(b.bufSize, addrSize)
	if b.k < 2 {
		return nil, errors.Errorf("buffer size limit %d fits %d pointers per buffer, need at least 2", b.bufSize, b.k)
	}
	return b, nil
}

// PutOptions control a single Put. A non-nil Seq selects the mutable
// write path (including Seq of zero). Salt applies to the root record
// only; when absent it is derived from content, mixed with random bytes
// when the payload fits in a single record.
type PutOptions struct {
	Seq  *int64
	Salt string
}

// GetOptions control a single Get. Recursive suppresses reassembly and
// returns the raw record.
type GetOptions struct {
	Recursive bool
}

// Put stores data and returns the address of its root record. Payloads
// within the record size limit are stored whole; larger ones become a
// pointer tree whose depth is bounded by the indirection limit.
func (b *Backend) Put(ctx context.Context, data []byte, opts PutOptions) (Address, error) {
	frags := sliceBuffer(data, b.bufSize)
	if len(frags) == 1 {
		salt := opts.Salt
		if salt == "" {
			salt = randomSalt(frags[0])
		}
		return b.publish(ctx, frags[0], opts.Seq, salt)
	}
	if max := treeCapacity(b.k, b.maxInd, b.bufSize); int64(len(data)) > max {
		return Zero, errors.Wrapf(ErrCapacityExceeded, "%d bytes exceed the %d-byte capacity of a depth-%d tree", len(data), max, b.maxInd)
	}
	return b.storeTree(ctx, frags, opts, 1)
}

// Get fetches the record at addr, reassembling chunked payloads unless
// opts.Recursive is set.
func (b *Backend) Get(ctx context.Context, addr Address, opts GetOptions) (Record, error) {
	rec, err := b.t.Get(ctx, addr)
	if err != nil {
		return rec, err
	}
	if opts.Recursive {
		return rec, nil
	}
	return b.resolve(ctx, rec)
}

// publish writes a single record: signed and sequenced when seq is
// present, content-addressed otherwise.
func (b *Backend) publish(ctx context.Context, v []byte, seq *int64, salt string) (Address, error) {
	if seq == nil {
		return b.t.PutImmutable(ctx, Record{V: v, Salt: salt})
	}
	if b.keys == nil {
		return Zero, ErrNoKeys
	}
	rec := Record{
		V:    v,
		Seq:  seq,
		Salt: salt,
		K:    b.keys.PublicKeyHex(),
	}
	sig, err := Sign(b.keys, *seq, salt, v)
	if err != nil {
		return Zero, err
	}
	rec.Sig = sig
	return b.t.PutMutable(ctx, rec)
}

// Start starts the transport when it manages lifecycle.
func (b *Backend) Start(ctx context.Context) error {
	if l, ok := b.t.(Lifecycle); ok {
		return l.Start(ctx)
	}
	return nil
}

// Stop stops the transport when it manages lifecycle.
func (b *Backend) Stop(ctx context.Context) error {
	if l, ok := b.t.(Lifecycle); ok {
		return l.Stop(ctx)
	}
	return nil
}
