package main

import (
	"context"
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/bitfinexcom/wasteland"
)

func (c maincmd) get(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	recursive := fs.Bool("recursive", false, "return the raw record without reassembly")
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	args = fs.Args()
	if len(args) == 0 {
		return errors.New("missing address")
	}

	addr, err := wasteland.AddressFromHex(args[0])
	if err != nil {
		return errors.Wrapf(err, "decoding address %s", args[0])
	}

	rec, err := c.b.Get(ctx, addr, wasteland.GetOptions{Recursive: *recursive})
	if err != nil {
		return errors.Wrapf(err, "getting record %s", addr)
	}

	_, err = os.Stdout.Write(rec.V)
	return errors.Wrap(err, "writing payload to stdout")
}
