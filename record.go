package wasteland

import "encoding/json"

// Record is the unit stored at one transport address.
//
// V is either a leaf fragment of user data or a serialized pointer
// buffer. Seq is present exactly when the record is mutable; mutable
// records also carry Salt, K (the hex-encoded signing public key) and
// Sig. ID is the transport origin tag, set on reads only. Original is
// set by the reassembler: the root record's own V before reassembly
// replaced it with the concatenated leaf contents.
type Record struct {
	V        []byte `json:"v"`
	Seq      *int64 `json:"seq,omitempty"`
	Salt     string `json:"salt,omitempty"`
	K        string `json:"k,omitempty"`
	Sig      string `json:"sig,omitempty"`
	ID       string `json:"id,omitempty"`
	Original []byte `json:"-"`
}

// Mutable reports whether the record is a mutable (signed, sequenced)
// entry.
func (r Record) Mutable() bool { return r.Seq != nil }

// pointerTag is the envelope discriminator by which the reassembler
// distinguishes pointer buffers from leaves. It is part of the wire
// format.
const pointerTag = "pointers"

// pointerBuffer is the envelope serialized into a pointer record's V.
// The fixed field order makes the serialization canonical.
type pointerBuffer struct {
	Type string   `json:"wasteland_type"`
	P    []string `json:"p"`
}

// encodePointers serializes a pointer buffer holding the given child
// addresses, in order.
func encodePointers(addrs []Address) ([]byte, error) {
	pb := pointerBuffer{Type: pointerTag, P: make([]string, 0, len(addrs))}
	for _, a := range addrs {
		pb.P = append(pb.P, a.String())
	}
	return json.Marshal(pb)
}

// decodePointers attempts to read v as a pointer buffer. The boolean is
// false when v is leaf data: not valid JSON, missing the discriminator,
// or carrying malformed addresses.
func decodePointers(v []byte) ([]Address, bool) {
	var pb pointerBuffer
	if err := json.Unmarshal(v, &pb); err != nil {
		return nil, false
	}
	if pb.Type != pointerTag {
		return nil, false
	}
	addrs := make([]Address, len(pb.P))
	for i, s := range pb.P {
		if err := addrs[i].FromHex(s); err != nil {
			return nil, false
		}
	}
	return addrs, true
}

// pointerOverhead is the serialized size of an empty pointer buffer: the
// envelope cost the fan-out computation subtracts from the record size
// limit.
func pointerOverhead() int {
	b, err := json.Marshal(pointerBuffer{Type: pointerTag, P: []string{}})
	if err != nil {
		panic(err)
	}
	return len(b)
}
