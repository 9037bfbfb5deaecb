package wasteland

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"

	"github.com/pkg/errors"
)

// AddressSize is the width of a rendered address in hex characters.
const AddressSize = 2 * sha1.Size

// Address identifies a transport record: a 20-byte digest. Mutable
// records live at the digest of (publicKey, salt); immutable records at
// the digest of their content.
type Address [sha1.Size]byte

// Zero is the zero value of an Address.
var Zero Address

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a *Address) FromHex(s string) error {
	if len(s) != AddressSize {
		return errors.New("wrong length")
	}
	_, err := hex.Decode(a[:], []byte(s))
	return err
}

func AddressFromHex(s string) (Address, error) {
	var out Address
	err := out.FromHex(s)
	return out, err
}

func AddressFromBytes(b []byte) Address {
	var out Address
	copy(out[:], b)
	return out
}

// ImmutableAddress computes the content address of an immutable record:
// the digest of its value. It is a pure function of content, which makes
// immutable writes idempotent.
func ImmutableAddress(v []byte) Address {
	return sha1.Sum(v)
}

// MutableAddress computes the keypair-bound address of a mutable record:
// the digest of the public key followed by the salt.
func MutableAddress(publicKey []byte, salt string) Address {
	h := sha1.New()
	h.Write(publicKey)
	h.Write([]byte(salt))
	return AddressFromBytes(h.Sum(nil))
}

// RecordAddress computes the transport address a record lives at.
func RecordAddress(rec Record) (Address, error) {
	if !rec.Mutable() {
		return ImmutableAddress(rec.V), nil
	}
	pub, err := hex.DecodeString(rec.K)
	if err != nil {
		return Zero, errors.Wrap(err, "decoding public key")
	}
	return MutableAddress(pub, rec.Salt), nil
}

// contentSalt derives a record salt from the record's own content.
func contentSalt(v []byte) string {
	sum := sha1.Sum(v)
	return hex.EncodeToString(sum[:])
}

// randomSalt derives a salt from content mixed with random bytes, so
// repeated writes of the same payload land at distinct mutable addresses
// unless the caller pins the salt.
func randomSalt(v []byte) string {
	var rnd [8]byte
	if _, err := rand.Read(rnd[:]); err != nil {
		panic(err)
	}
	h := sha1.New()
	h.Write(v)
	h.Write(rnd[:])
	return hex.EncodeToString(h.Sum(nil))
}
