package wasteland

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// storeTree stores one level of records and recurses upward until a
// single pointer buffer roots the tree. payloads holds the current
// level's record values in payload order; depth counts pointer levels
// built so far, including this one.
func (b *Backend) storeTree(ctx context.Context, payloads [][]byte, opts PutOptions, depth int) (Address, error) {
	if depth > b.maxInd {
		return Zero, errors.Wrapf(ErrCapacityExceeded, "pointer tree deeper than %d levels", b.maxInd)
	}

	if len(payloads) <= b.k {
		addrs, err := b.storeLevel(ctx, payloads, opts.Seq)
		if err != nil {
			return Zero, err
		}
		buf, err := encodePointers(addrs)
		if err != nil {
			return Zero, errors.Wrap(err, "encoding root pointer buffer")
		}
		salt := opts.Salt
		if salt == "" {
			salt = contentSalt(buf)
		}
		return b.publish(ctx, buf, opts.Seq, salt)
	}

	// Too many records for one pointer buffer: box them into fan-out
	// sized groups, one intermediate pointer buffer per box, then treat
	// the buffers as the next level's records. Boxes run in sequence;
	// the stores within a box run in parallel.
	next := make([][]byte, 0, (len(payloads)+b.k-1)/b.k)
	for off := 0; off < len(payloads); off += b.k {
		end := off + b.k
		if end > len(payloads) {
			end = len(payloads)
		}
		addrs, err := b.storeLevel(ctx, payloads[off:end], opts.Seq)
		if err != nil {
			return Zero, err
		}
		buf, err := encodePointers(addrs)
		if err != nil {
			return Zero, errors.Wrap(err, "encoding pointer buffer")
		}
		next = append(next, buf)
	}
	return b.storeTree(ctx, next, opts, depth+1)
}

// storeLevel stores the given record values in parallel, bounded by the
// configured request cap, and returns their addresses in input order.
// Each record's salt is derived from its own content.
func (b *Backend) storeLevel(ctx context.Context, payloads [][]byte, seq *int64) ([]Address, error) {
	addrs := make([]Address, len(payloads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.conc)
	for i, p := range payloads {
		i, p := i, p
		g.Go(func() error {
			salt := contentSalt(p)
			addr, err := b.publish(gctx, p, seq, salt)
			if errors.Is(err, ErrSeqConflict) {
				// The salt is the content digest, so the record at this
				// address already holds these bytes from an earlier
				// write under the same keypair.
				addr, err = MutableAddress(b.keys.PublicKey, salt), nil
			}
			if err != nil {
				return errors.Wrapf(err, "storing chunk %d", i)
			}
			addrs[i] = addr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return addrs, nil
}
