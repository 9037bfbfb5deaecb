// Package logging implements a transport that delegates everything to a
// nested transport, logging operations as they happen.
package logging

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bitfinexcom/wasteland"
	"github.com/bitfinexcom/wasteland/transport"
)

var _ wasteland.Transport = &Transport{}

// Transport logs the operations of a nested transport.
type Transport struct {
	t wasteland.Transport
	l *zap.SugaredLogger
}

// New produces a Transport wrapping t.
func New(t wasteland.Transport, l *zap.SugaredLogger) *Transport {
	return &Transport{t: t, l: l}
}

func (t *Transport) PutImmutable(ctx context.Context, rec wasteland.Record) (wasteland.Address, error) {
	addr, err := t.t.PutImmutable(ctx, rec)
	if err != nil {
		t.l.Errorw("put immutable", "size", len(rec.V), "err", err)
	} else {
		t.l.Infow("put immutable", "addr", addr.String(), "size", len(rec.V))
	}
	return addr, err
}

func (t *Transport) PutMutable(ctx context.Context, rec wasteland.Record) (wasteland.Address, error) {
	seq := int64(-1)
	if rec.Seq != nil {
		seq = *rec.Seq
	}
	addr, err := t.t.PutMutable(ctx, rec)
	if err != nil {
		t.l.Errorw("put mutable", "seq", seq, "size", len(rec.V), "err", err)
	} else {
		t.l.Infow("put mutable", "addr", addr.String(), "seq", seq, "size", len(rec.V))
	}
	return addr, err
}

func (t *Transport) Get(ctx context.Context, addr wasteland.Address) (wasteland.Record, error) {
	rec, err := t.t.Get(ctx, addr)
	if err != nil {
		t.l.Errorw("get", "addr", addr.String(), "err", err)
	} else {
		t.l.Infow("get", "addr", addr.String(), "size", len(rec.V))
	}
	return rec, err
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
	transport.Register("logging", func(ctx context.Context, conf map[string]interface{}) (wasteland.Transport, error) {
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
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, errors.Wrap(err, "creating logger")
		}
		return New(nestedTransport, logger.Sugar()), nil
	})
}
