package logging

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bitfinexcom/wasteland"
	"github.com/bitfinexcom/wasteland/transport/mem"
)

func TestPassthrough(t *testing.T) {
	ctx := context.Background()
	tr := New(mem.New(), zap.NewNop().Sugar())

	addr, err := tr.PutImmutable(ctx, wasteland.Record{V: []byte("furbie")})
	if err != nil {
		t.Fatal(err)
	}

	rec, err := tr.Get(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	if string(rec.V) != "furbie" {
		t.Errorf("got %q, want %q", rec.V, "furbie")
	}

	if _, err := tr.Get(ctx, wasteland.Address{1}); !errors.Is(err, wasteland.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
