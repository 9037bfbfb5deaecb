// Package transport provides the registry of named Transport factories.
// Implementations register themselves in an init function; programs
// select one by name from configuration.
package transport

import (
	"context"
	"fmt"

	"github.com/bitfinexcom/wasteland"
)

// Factory produces a Transport from a configuration map.
type Factory func(context.Context, map[string]interface{}) (wasteland.Transport, error)

var registry = make(map[string]Factory)

// Register makes a Factory available under a key.
func Register(key string, f Factory) {
	registry[key] = f
}

// Create produces the Transport registered under key.
func Create(ctx context.Context, key string, conf map[string]interface{}) (wasteland.Transport, error) {
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("key %s not found in registry", key)
	}
	return f(ctx, conf)
}

// Int reads an integer config value, tolerating the float64 that JSON
// decoding produces.
func Int(conf map[string]interface{}, key string) (int, bool) {
	switch n := conf[key].(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
