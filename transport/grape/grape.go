// Package grape implements a transport speaking the Grenache grape
// node's HTTP RPC: JSON bodies POSTed to the node's put and get
// endpoints, correlated by a request id.
package grape

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bitfinexcom/wasteland"
	"github.com/bitfinexcom/wasteland/transport"
)

// Origin is the tag stamped on records read from this transport.
const Origin = "grape"

var (
	_ wasteland.Transport = &Transport{}
	_ wasteland.Lifecycle = &Transport{}
)

// Transport talks to a grape node over HTTP.
type Transport struct {
	url    string
	client *http.Client
}

// New produces a Transport for the grape node at url, e.g.
// http://127.0.0.1:30001.
func New(url string) *Transport {
	return &Transport{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// request is the envelope the node expects: a correlation id plus the
// method payload.
type request struct {
	RID  string      `json:"rid"`
	Data interface{} `json:"data"`
}

// wireRecord is a record as the node serializes it.
type wireRecord struct {
	V    string `json:"v"`
	Seq  *int64 `json:"seq,omitempty"`
	Salt string `json:"salt,omitempty"`
	K    string `json:"k,omitempty"`
	Sig  string `json:"sig,omitempty"`
}

// PutImmutable stores a content-addressed record on the node.
func (t *Transport) PutImmutable(ctx context.Context, rec wasteland.Record) (wasteland.Address, error) {
	return t.put(ctx, rec)
}

// PutMutable stores a signed record on the node; the node verifies the
// signature and enforces seq monotonicity.
func (t *Transport) PutMutable(ctx context.Context, rec wasteland.Record) (wasteland.Address, error) {
	return t.put(ctx, rec)
}

func (t *Transport) put(ctx context.Context, rec wasteland.Record) (wasteland.Address, error) {
	data := wireRecord{V: string(rec.V), Seq: rec.Seq, Salt: rec.Salt, K: rec.K, Sig: rec.Sig}
	var hash string
	if err := t.call(ctx, "put", data, &hash); err != nil {
		return wasteland.Zero, err
	}
	addr, err := wasteland.AddressFromHex(hash)
	return addr, errors.Wrap(err, "decoding stored hash")
}

// Get fetches the record at addr.
func (t *Transport) Get(ctx context.Context, addr wasteland.Address) (wasteland.Record, error) {
	var reply *wireRecord
	if err := t.call(ctx, "get", addr.String(), &reply); err != nil {
		return wasteland.Record{ID: Origin}, err
	}
	if reply == nil {
		return wasteland.Record{ID: Origin}, wasteland.ErrNotFound
	}
	return wasteland.Record{
		V:    []byte(reply.V),
		Seq:  reply.Seq,
		Salt: reply.Salt,
		K:    reply.K,
		Sig:  reply.Sig,
		ID:   Origin,
	}, nil
}

// call POSTs a JSON request to the node and decodes the JSON reply.
func (t *Transport) call(ctx context.Context, method string, data, reply interface{}) error {
	body, err := json.Marshal(request{RID: uuid.NewString(), Data: data})
	if err != nil {
		return errors.Wrap(err, "encoding request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url+"/"+method, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "calling %s", method)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading reply")
	}
	if resp.StatusCode != http.StatusOK {
		return nodeError(resp.StatusCode, raw)
	}
	return errors.Wrap(json.Unmarshal(raw, reply), "decoding reply")
}

// nodeError maps a node-side rejection onto the protocol error kinds by
// the error text the node relays from the DHT.
func nodeError(code int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	switch {
	case strings.Contains(msg, "sequence"):
		return errors.Wrap(wasteland.ErrSeqConflict, msg)
	case strings.Contains(msg, "signature"):
		return errors.Wrap(wasteland.ErrInvalidSignature, msg)
	case code == http.StatusNotFound:
		return wasteland.ErrNotFound
	}
	return errors.Errorf("node error %d: %s", code, msg)
}

// Start implements wasteland.Lifecycle.
func (t *Transport) Start(context.Context) error { return nil }

// Stop implements wasteland.Lifecycle.
func (t *Transport) Stop(context.Context) error {
	t.client.CloseIdleConnections()
	return nil
}

func init() {
	transport.Register("grape", func(_ context.Context, conf map[string]interface{}) (wasteland.Transport, error) {
		url, ok := conf["url"].(string)
		if !ok {
			return nil, errors.New(`missing "url" parameter`)
		}
		return New(url), nil
	})
}
