package wasteland

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// resolve reassembles a chunked payload. When rec's value is a pointer
// buffer, the tree below it is fetched one level per bounded parallel
// round; the leaf values concatenate, in pointer order, to the original
// payload. The returned record's Original holds the root's own value.
func (b *Backend) resolve(ctx context.Context, rec Record) (Record, error) {
	addrs, ok := decodePointers(rec.V)
	if !ok {
		return rec, nil
	}

	original := rec.V
	for depth := 1; ; depth++ {
		if depth > b.maxInd {
			return rec, errors.Wrapf(ErrCapacityExceeded, "pointer tree deeper than %d levels", b.maxInd)
		}
		values, err := b.fetchLevel(ctx, addrs)
		if err != nil {
			return rec, err
		}

		// A level counts as pointers only when every record in it
		// decodes as a pointer buffer; the builder produces uniform
		// levels. A lone leaf whose bytes happen to decode as a pointer
		// buffer is misinterpreted - the discriminator is the only
		// signal.
		next := make([]Address, 0, len(values))
		pointers := true
		for _, v := range values {
			children, ok := decodePointers(v)
			if !ok {
				pointers = false
				break
			}
			next = append(next, children...)
		}
		if pointers {
			addrs = next
			continue
		}

		rec.Original = original
		rec.V = bytes.Join(values, nil)
		return rec, nil
	}
}

// fetchLevel fetches the records at addrs in parallel, bounded by the
// configured request cap, returning their values in address order. A
// missing child is a hard error: reassembling around it would silently
// corrupt the payload.
func (b *Backend) fetchLevel(ctx context.Context, addrs []Address) ([][]byte, error) {
	values := make([][]byte, len(addrs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.conc)
	for i, addr := range addrs {
		i, addr := i, addr
		g.Go(func() error {
			child, err := b.t.Get(gctx, addr)
			if err != nil {
				return errors.Wrapf(err, "fetching chunk %s", addr)
			}
			values[i] = child.V
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}
