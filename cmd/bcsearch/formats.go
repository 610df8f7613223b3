package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/erinpentecost/bcsearch/internal/compress"
	"github.com/erinpentecost/bcsearch/internal/dds"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type formatsCmd struct{}

func (formatsCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name: "formats",
		Desc: "List the supported compressed formats.",
	}
}

func (formatsCmd) Run(fl *pflag.FlagSet) {
	if err := listFormats(os.Stdout); err != nil {
		fail(err)
	}
}

func listFormats(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tBLOCK\tPIXELS\tMODES\tMODAL\tDDS")
	for _, f := range texture.Formats() {
		if !compress.Supported(f) {
			continue
		}
		cc, err := dds.FourCC(f)
		if err != nil {
			cc = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%t\t%s\n",
			f, f.BlockSize(), strings.ToLower(f.PixelFormat().String()),
			compress.NumberOfModes(f), compress.ModalDefault(f), cc)
	}
	return tw.Flush()
}
