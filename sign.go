package wasteland

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/zeebo/bencode"
)

// Keys is the keypair used for mutable writes.
type Keys struct {
	PublicKey ed25519.PublicKey
	SecretKey ed25519.PrivateKey
}

// GenerateKeys produces a fresh keypair.
func GenerateKeys() (*Keys, error) {
	pub, sec, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "generating keypair")
	}
	return &Keys{PublicKey: pub, SecretKey: sec}, nil
}

// KeysFromHex decodes a hex-encoded keypair.
func KeysFromHex(public, secret string) (*Keys, error) {
	pub, err := hex.DecodeString(public)
	if err != nil {
		return nil, errors.Wrap(err, "decoding public key")
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, errors.Errorf("public key is %d bytes, want %d", len(pub), ed25519.PublicKeySize)
	}
	sec, err := hex.DecodeString(secret)
	if err != nil {
		return nil, errors.Wrap(err, "decoding secret key")
	}
	if len(sec) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("secret key is %d bytes, want %d", len(sec), ed25519.PrivateKeySize)
	}
	return &Keys{PublicKey: pub, SecretKey: sec}, nil
}

// PublicKeyHex renders the public key the way records carry it.
func (k *Keys) PublicKeyHex() string {
	return hex.EncodeToString(k.PublicKey)
}

// Signable produces the canonical byte encoding of (seq, salt, v): the
// bencoding of the dictionary {salt?, seq, v}, keys sorted, salt omitted
// when empty, with the outer dictionary delimiters stripped. Verifiers
// must prepare the identical bytes.
func Signable(seq int64, salt string, v []byte) ([]byte, error) {
	m := map[string]interface{}{
		"seq": seq,
		"v":   v,
	}
	if salt != "" {
		m["salt"] = salt
	}
	enc, err := bencode.EncodeBytes(m)
	if err != nil {
		return nil, errors.Wrap(err, "bencoding signable")
	}
	return enc[1 : len(enc)-1], nil
}

// Sign signs the canonical encoding of (seq, salt, v), returning the
// detached signature in hex.
func Sign(keys *Keys, seq int64, salt string, v []byte) (string, error) {
	signable, err := Signable(seq, salt, v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(ed25519.Sign(keys.SecretKey, signable)), nil
}

// Verify checks a mutable record's signature against the public key the
// record itself carries.
func Verify(rec Record) error {
	if rec.Seq == nil {
		return errors.New("record is not mutable")
	}
	pub, err := hex.DecodeString(rec.K)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return errors.Wrap(ErrInvalidSignature, "malformed public key")
	}
	sig, err := hex.DecodeString(rec.Sig)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, "malformed signature")
	}
	signable, err := Signable(*rec.Seq, rec.Salt, rec.V)
	if err != nil {
		return err
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), signable, sig) {
		return ErrInvalidSignature
	}
	return nil
}
