package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/bitfinexcom/wasteland"
)

func (c maincmd) put(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	var (
		seq  = fs.Int64("seq", -1, "sequence number; >= 0 selects the mutable write path")
		salt = fs.String("salt", "", "salt for the root record")
	)
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return errors.Wrap(err, "reading stdin")
	}

	opts := wasteland.PutOptions{Salt: *salt}
	if *seq >= 0 {
		s := *seq
		opts.Seq = &s
	}

	addr, err := c.b.Put(ctx, data, opts)
	if err != nil {
		return errors.Wrap(err, "storing payload")
	}

	fmt.Println(addr)
	return nil
}
