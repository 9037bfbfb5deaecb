// Command wl is a CLI interface to wasteland storage over a configured
// transport.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bobg/subcmd"
	"github.com/pkg/errors"

	"github.com/bitfinexcom/wasteland"
	"github.com/bitfinexcom/wasteland/transport"
	_ "github.com/bitfinexcom/wasteland/transport/cache"
	_ "github.com/bitfinexcom/wasteland/transport/grape"
	_ "github.com/bitfinexcom/wasteland/transport/logging"
	_ "github.com/bitfinexcom/wasteland/transport/mem"
)

type maincmd struct {
	b *wasteland.Backend
}

func main() {
	config := flag.String("config", "wlconf.json", "path to config file")
	flag.Parse()

	args := flag.Args()
	if len(args) > 0 && args[0] == "keygen" {
		if err := keygen(); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx := context.Background()

	b, err := load(ctx, *config)
	if err != nil {
		log.Fatal(err)
	}

	if err := b.Start(ctx); err != nil {
		log.Fatalf("starting transport: %s", err)
	}
	defer func() {
		if err := b.Stop(ctx); err != nil {
			log.Printf("stopping transport: %s", err)
		}
	}()

	err = subcmd.Run(ctx, maincmd{b: b}, args)
	if err != nil {
		log.Fatal(err)
	}
}

func (c maincmd) Subcmds() map[string]subcmd.Subcmd {
	return map[string]subcmd.Subcmd{
		"get": {F: c.get},
		"put": {F: c.put},
	}
}

func load(ctx context.Context, path string) (*wasteland.Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening config file %s", path)
	}
	defer f.Close()

	var conf map[string]interface{}
	if err := json.NewDecoder(f).Decode(&conf); err != nil {
		return nil, errors.Wrapf(err, "decoding config file %s", path)
	}

	typ, ok := conf["type"].(string)
	if !ok {
		return nil, errors.Errorf("config file %s missing `type` parameter", path)
	}

	t, err := transport.Create(ctx, typ, conf)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s-type transport", typ)
	}

	cfg := wasteland.Config{Transport: t}
	if keys, ok := conf["keys"].(map[string]interface{}); ok {
		public, _ := keys["public"].(string)
		secret, _ := keys["secret"].(string)
		cfg.Keys, err = wasteland.KeysFromHex(public, secret)
		if err != nil {
			return nil, errors.Wrap(err, "decoding keys")
		}
	}
	if n, ok := transport.Int(conf, "maxIndirections"); ok {
		cfg.MaxIndirections = n
	}
	if n, ok := transport.Int(conf, "bufferSizeLimit"); ok {
		cfg.BufferSizeLimit = n
	}
	if n, ok := transport.Int(conf, "concurrentRequests"); ok {
		cfg.ConcurrentRequests = n
	}

	return wasteland.New(cfg)
}

func keygen() error {
	keys, err := wasteland.GenerateKeys()
	if err != nil {
		return err
	}
	fmt.Printf("public %x\nsecret %x\n", keys.PublicKey, keys.SecretKey)
	return nil
}
