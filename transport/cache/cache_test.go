package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/bitfinexcom/wasteland"
)

// stubTransport records how often the nested transport is read.
type stubTransport struct {
	mu      sync.Mutex
	gets    int
	records map[wasteland.Address]wasteland.Record
}

func newStub() *stubTransport {
	return &stubTransport{records: make(map[wasteland.Address]wasteland.Record)}
}

func (s *stubTransport) PutImmutable(_ context.Context, rec wasteland.Record) (wasteland.Address, error) {
	addr := wasteland.ImmutableAddress(rec.V)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[addr] = rec
	return addr, nil
}

func (s *stubTransport) PutMutable(_ context.Context, rec wasteland.Record) (wasteland.Address, error) {
	addr, err := wasteland.RecordAddress(rec)
	if err != nil {
		return wasteland.Zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[addr] = rec
	return addr, nil
}

func (s *stubTransport) Get(_ context.Context, addr wasteland.Address) (wasteland.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	rec, ok := s.records[addr]
	if !ok {
		return wasteland.Record{}, wasteland.ErrNotFound
	}
	return rec, nil
}

func (s *stubTransport) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func TestImmutableCached(t *testing.T) {
	ctx := context.Background()
	stub := newStub()
	c, err := New(stub, 10)
	if err != nil {
		t.Fatal(err)
	}

	addr, err := c.PutImmutable(ctx, wasteland.Record{V: []byte("furbie")})
	if err != nil {
		t.Fatal(err)
	}

	// The write primed the cache: reads never touch the nested
	// transport.
	for i := 0; i < 3; i++ {
		rec, err := c.Get(ctx, addr)
		if err != nil {
			t.Fatal(err)
		}
		if string(rec.V) != "furbie" {
			t.Errorf("got %q, want %q", rec.V, "furbie")
		}
	}
	if n := stub.getCount(); n != 0 {
		t.Errorf("nested transport read %d times, want 0", n)
	}
}

func TestReadThrough(t *testing.T) {
	ctx := context.Background()
	stub := newStub()
	c, err := New(stub, 10)
	if err != nil {
		t.Fatal(err)
	}

	// Written behind the cache's back.
	addr, err := stub.PutImmutable(ctx, wasteland.Record{V: []byte("aloha")})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Get(ctx, addr); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(ctx, addr); err != nil {
		t.Fatal(err)
	}
	if n := stub.getCount(); n != 1 {
		t.Errorf("nested transport read %d times, want 1", n)
	}
}

func TestMutableBypassesCache(t *testing.T) {
	ctx := context.Background()
	stub := newStub()
	c, err := New(stub, 10)
	if err != nil {
		t.Fatal(err)
	}

	keys, err := wasteland.GenerateKeys()
	if err != nil {
		t.Fatal(err)
	}
	seq := int64(1)
	sig, err := wasteland.Sign(keys, seq, "salty", []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	rec := wasteland.Record{V: []byte("one"), Seq: &seq, Salt: "salty", K: keys.PublicKeyHex(), Sig: sig}

	addr, err := c.PutMutable(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Get(ctx, addr); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(ctx, addr); err != nil {
		t.Fatal(err)
	}
	if n := stub.getCount(); n != 2 {
		t.Errorf("nested transport read %d times, want 2", n)
	}
}
