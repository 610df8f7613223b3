package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type rootCmd struct{}

func (r *rootCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "bcsearch",
		Usage: "[subcommand] [flags]",
		Desc:  "Compress textures into GPU block formats by stochastic search.",
	}
}

func (r *rootCmd) Run(fl *pflag.FlagSet) {
	if fl.Usage != nil {
		fl.Usage()
	}
	os.Exit(1)
}

func (r *rootCmd) Subcommands() []cli.Command {
	return []cli.Command{
		&compressCmd{},
		&decompressCmd{},
		&formatsCmd{},
	}
}

// reporter prints progress unless quiet.
type reporter struct {
	quiet bool
}

func (r reporter) Printf(format string, args ...any) {
	if !r.quiet {
		fmt.Printf(format, args...)
	}
}

func fail(err error) {
	fmt.Printf("FAILED: %v\n", err)
	os.Exit(33)
}

func main() {
	cli.RunRoot(&rootCmd{})
}
