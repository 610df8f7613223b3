package main

import (
	"errors"
	"fmt"

	"github.com/erinpentecost/bcsearch/internal/decode"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type decompressCmd struct {
	output string
	format string
	width  int
	height int
	quiet  bool
}

func (d *decompressCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:    "decompress",
		Usage:   "[flags] <input.dds|pkm|raw|zst>",
		Desc:    "Decode the top level of a compressed texture into png, bmp or uncompressed dds.",
		Aliases: []string{"d"},
	}
}

func (d *decompressCmd) RegisterFlags(fl *pflag.FlagSet) {
	fl.StringVarP(&d.output, "output", "o", "", "output image path (required)")
	fl.StringVarP(&d.format, "format", "f", "", "format of headerless raw or zst input")
	fl.IntVar(&d.width, "width", 0, "width of headerless input")
	fl.IntVar(&d.height, "height", 0, "height of headerless input")
	fl.BoolVarP(&d.quiet, "quiet", "q", false, "only report errors")
}

func (d *decompressCmd) Run(fl *pflag.FlagSet) {
	if fl.NArg() != 1 {
		fail(errors.New("decompress: expected exactly one input file"))
	}
	if d.output == "" {
		fail(errors.New("decompress: --output is required"))
	}
	f := texture.Unknown
	if d.format != "" {
		var err error
		if f, err = texture.ParseFormat(d.format); err != nil {
			fail(err)
		}
	}
	if err := decompressFile(reporter{quiet: d.quiet}, fl.Arg(0), d.output, f, d.width, d.height); err != nil {
		fail(err)
	}
}

func decompressFile(msg reporter, in, out string, f texture.Format, width, height int) error {
	c, err := readCompressed(in, f, width, height)
	if err != nil {
		return err
	}
	msg.Printf("Decoding %q (%s, %dx%d)...\n", in, c.Format, c.Width, c.Height)
	t, err := decode.Texture(c)
	if err != nil {
		return fmt.Errorf("decode %q: %w", in, err)
	}
	if err := writeImage(out, texture.ToImage(t)); err != nil {
		return err
	}
	msg.Printf("Wrote %q.\n", out)
	return nil
}
