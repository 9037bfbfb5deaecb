package mem

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/bitfinexcom/wasteland"
)

func signedRecord(t *testing.T, keys *wasteland.Keys, seq int64, salt, v string) wasteland.Record {
	t.Helper()
	sig, err := wasteland.Sign(keys, seq, salt, []byte(v))
	if err != nil {
		t.Fatal(err)
	}
	return wasteland.Record{
		V:    []byte(v),
		Seq:  &seq,
		Salt: salt,
		K:    keys.PublicKeyHex(),
		Sig:  sig,
	}
}

func TestImmutable(t *testing.T) {
	ctx := context.Background()
	tr := New()

	a1, err := tr.PutImmutable(ctx, wasteland.Record{V: []byte("furbie")})
	if err != nil {
		t.Fatal(err)
	}
	a2, err := tr.PutImmutable(ctx, wasteland.Record{V: []byte("furbie")})
	if err != nil {
		t.Fatal(err)
	}
	if a1 != a2 {
		t.Errorf("equal content stored at %s and %s", a1, a2)
	}

	a3, err := tr.PutImmutable(ctx, wasteland.Record{V: []byte("furbie-foo")})
	if err != nil {
		t.Fatal(err)
	}
	if a3 == a1 {
		t.Error("different content stored at the same address")
	}

	rec, err := tr.Get(ctx, a1)
	if err != nil {
		t.Fatal(err)
	}
	if string(rec.V) != "furbie" {
		t.Errorf("got %q, want %q", rec.V, "furbie")
	}
	if rec.ID != Origin {
		t.Errorf("got origin %q, want %q", rec.ID, Origin)
	}
}

func TestMutableSequence(t *testing.T) {
	ctx := context.Background()
	tr := New()
	keys, err := wasteland.GenerateKeys()
	if err != nil {
		t.Fatal(err)
	}

	// First write at an empty cell is accepted whatever its seq.
	addr, err := tr.PutMutable(ctx, signedRecord(t, keys, 5, "salty", "one"))
	if err != nil {
		t.Fatal(err)
	}

	// Replaying the same seq conflicts, as does skipping ahead.
	if _, err := tr.PutMutable(ctx, signedRecord(t, keys, 5, "salty", "one")); !errors.Is(err, wasteland.ErrSeqConflict) {
		t.Errorf("got %v replaying seq 5, want ErrSeqConflict", err)
	}
	if _, err := tr.PutMutable(ctx, signedRecord(t, keys, 8, "salty", "three")); !errors.Is(err, wasteland.ErrSeqConflict) {
		t.Errorf("got %v skipping to seq 8, want ErrSeqConflict", err)
	}

	// The successor seq overwrites.
	if _, err := tr.PutMutable(ctx, signedRecord(t, keys, 6, "salty", "two")); err != nil {
		t.Fatal(err)
	}
	rec, err := tr.Get(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	if string(rec.V) != "two" {
		t.Errorf("got %q, want %q", rec.V, "two")
	}
	if rec.Seq == nil || *rec.Seq != 6 {
		t.Errorf("got seq %v, want 6", rec.Seq)
	}

	// A different salt is an independent cell.
	if _, err := tr.PutMutable(ctx, signedRecord(t, keys, 1, "other", "aloha")); err != nil {
		t.Fatal(err)
	}
}

func TestInvalidSignature(t *testing.T) {
	ctx := context.Background()
	tr := New()
	keys, err := wasteland.GenerateKeys()
	if err != nil {
		t.Fatal(err)
	}

	rec := signedRecord(t, keys, 1, "salty", "furbie")
	rec.V = []byte("tampered")
	if _, err := tr.PutMutable(ctx, rec); !errors.Is(err, wasteland.ErrInvalidSignature) {
		t.Errorf("got %v, want ErrInvalidSignature", err)
	}

	other, err := wasteland.GenerateKeys()
	if err != nil {
		t.Fatal(err)
	}
	forged := signedRecord(t, keys, 1, "salty", "furbie")
	forged.K = other.PublicKeyHex()
	if _, err := tr.PutMutable(ctx, forged); !errors.Is(err, wasteland.ErrInvalidSignature) {
		t.Errorf("got %v, want ErrInvalidSignature", err)
	}
}

func TestMutableWithoutSeq(t *testing.T) {
	ctx := context.Background()
	tr := New()

	if _, err := tr.PutMutable(ctx, wasteland.Record{V: []byte("furbie")}); err == nil {
		t.Error("got no error storing a mutable record without seq, want one")
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	tr := New()

	rec, err := tr.Get(ctx, wasteland.Address{1, 2, 3})
	if !errors.Is(err, wasteland.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if rec.ID != Origin {
		t.Errorf("sentinel origin is %q, want %q", rec.ID, Origin)
	}
	if rec.V != nil {
		t.Errorf("sentinel carries a value: %q", rec.V)
	}
}
