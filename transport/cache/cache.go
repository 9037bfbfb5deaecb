// Package cache implements a transport that adds a read-through LRU
// cache in front of a nested transport.
//
// Only content-addressed records are cached: a mutable address can be
// overwritten by a higher-seq write, so mutable reads always go to the
// nested transport.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/bitfinexcom/wasteland"
	"github.com/bitfinexcom/wasteland/transport"
)

var _ wasteland.Transport = &Transport{}

// Transport caches immutable records of a nested transport.
type Transport struct {
	c *lru.Cache // Address -> Record
	t wasteland.Transport
}

// New produces a Transport backed by t and caching up to size records.
func New(t wasteland.Transport, size int) (*Transport, error) {
	c, err := lru.New(size)
	return &Transport{t: t, c: c}, err
}

// PutImmutable stores through and caches the stored record.
func (t *Transport) PutImmutable(ctx context.Context, rec wasteland.Record) (wasteland.Address, error) {
	addr, err := t.t.PutImmutable(ctx, rec)
	if err != nil {
		return addr, err
	}
	t.c.Add(addr, wasteland.Record{V: rec.V, Salt: rec.Salt})
	return addr, nil
}

// PutMutable passes through; mutable records are never cached.
func (t *Transport) PutMutable(ctx context.Context, rec wasteland.Record) (wasteland.Address, error) {
	return t.t.PutMutable(ctx, rec)
}

// Get serves cached immutable records, falling back to the nested
// transport.
func (t *Transport) Get(ctx context.Context, addr wasteland.Address) (wasteland.Record, error) {
	if got, ok := t.c.Get(addr); ok {
		return got.(wasteland.Record), nil
	}
	rec, err := t.t.Get(ctx, addr)
	if err != nil {
		return rec, err
	}
	if !rec.Mutable() {
		t.c.Add(addr, rec)
	}
	return rec, nil
}

// Start starts the nested transport when it manages lifecycle.
func (t *Transport) Start(ctx context.Context) error {
	if l, ok := t.t.(wasteland.Lifecycle); ok {
		return l.Start(ctx)
	}
	return nil
}

// Stop stops the nested transport when it manages lifecycle.
func (t *Transport) Stop(ctx context.Context) error {
	if l, ok := t.t.(wasteland.Lifecycle); ok {
		return l.Stop(ctx)
	}
	return nil
}

func init() {
	transport.Register("cache", func(ctx context.Context, conf map[string]interface{}) (wasteland.Transport, error) {
		size, ok := transport.Int(conf, "size")
		if !ok {
			return nil, errors.New(`missing "size" parameter`)
		}
		nested, ok := conf["nested"].(map[string]interface{})
		if !ok {
			return nil, errors.New(`missing "nested" parameter`)
		}
		nestedType, ok := nested["type"].(string)
		if !ok {
			return nil, errors.New(`"nested" parameter missing "type"`)
		}
		nestedTransport, err := transport.Create(ctx, nestedType, nested)
		if err != nil {
			return nil, errors.Wrap(err, "creating nested transport")
		}
		return New(nestedTransport, size)
	})
}
