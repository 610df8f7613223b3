package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/erinpentecost/bcsearch/internal/compress"
	"github.com/erinpentecost/bcsearch/internal/config"
	"github.com/erinpentecost/bcsearch/internal/mipmap"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type compressCmd struct {
	configPath string
	output     string

	format     string
	tries      int
	modal      string
	maxThreads int
	seed       uint64
	mipmaps    bool
	align      bool
	pot        int
	quiet      bool
}

func (c *compressCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:    "compress",
		Usage:   "[flags] <input.png|bmp|tga|dds>",
		Desc:    "Compress an image. The output container follows the extension of --output: dds, pkm, raw, zst, or png/bmp for a decoded preview.",
		Aliases: []string{"c"},
	}
}

func (c *compressCmd) RegisterFlags(fl *pflag.FlagSet) {
	def := config.Default()
	fl.StringVarP(&c.configPath, "config", "c", "", "YAML preset; flags given on the command line take precedence")
	fl.StringVarP(&c.output, "output", "o", "", "output path (default: input name with .dds, or .pkm for ETC1)")
	fl.StringVarP(&c.format, "format", "f", def.Format, "target format, see the formats command")
	fl.IntVarP(&c.tries, "tries", "t", def.Tries, "independent searches per block and mode")
	fl.StringVar(&c.modal, "modal", def.Modal, "search each mode separately: default, on or off")
	fl.IntVarP(&c.maxThreads, "threads", "j", def.MaxThreads, "maximum parallel bands, 0 for two per CPU")
	fl.Uint64Var(&c.seed, "seed", def.Seed, "random seed, 0 for a fresh one every run")
	fl.BoolVarP(&c.mipmaps, "mipmaps", "m", def.Mipmaps, "also compress the mipmap chain")
	fl.BoolVar(&c.align, "align", def.Align, "stretch the image to whole blocks first")
	fl.IntVar(&c.pot, "pot", def.PowerOfTwo, "resize to a power of two square, longest side divided by this factor; 0 keeps the size")
	fl.BoolVarP(&c.quiet, "quiet", "q", def.Quiet, "only report errors")
}

// settings merges the preset file with the flags that were set explicitly.
func (c *compressCmd) settings(fl *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if fl.Changed("format") {
		cfg.Format = c.format
	}
	if fl.Changed("tries") {
		cfg.Tries = c.tries
	}
	if fl.Changed("modal") {
		cfg.Modal = c.modal
	}
	if fl.Changed("threads") {
		cfg.MaxThreads = c.maxThreads
	}
	if fl.Changed("seed") {
		cfg.Seed = c.seed
	}
	if fl.Changed("mipmaps") {
		cfg.Mipmaps = c.mipmaps
	}
	if fl.Changed("align") {
		cfg.Align = c.align
	}
	if fl.Changed("pot") {
		cfg.PowerOfTwo = c.pot
	}
	if fl.Changed("quiet") {
		cfg.Quiet = c.quiet
	}
	return cfg, cfg.Validate()
}

func (c *compressCmd) Run(fl *pflag.FlagSet) {
	if fl.NArg() != 1 {
		fail(errors.New("compress: expected exactly one input file"))
	}
	cfg, err := c.settings(fl)
	if err != nil {
		fail(err)
	}
	in := fl.Arg(0)
	out := c.output
	if out == "" {
		out = defaultOutput(in, cfg.Format)
	}
	if err := compressFile(context.Background(), cfg, in, out); err != nil {
		fail(err)
	}
}

func defaultOutput(in, format string) string {
	suffix := ".dds"
	if f, err := texture.ParseFormat(format); err == nil && f == texture.ETC1 {
		suffix = ".pkm"
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + suffix
}

// processors lists the resizes cfg asks for, in the order they apply.
func processors(cfg config.Config) []mipmap.Processor {
	var ps []mipmap.Processor
	if cfg.PowerOfTwo > 0 {
		ps = append(ps, &mipmap.PowerOfTwoProcessor{DownScaleFactor: cfg.PowerOfTwo})
	}
	if cfg.Align {
		ps = append(ps, mipmap.BlockAlignProcessor{})
	}
	return ps
}

func compressFile(ctx context.Context, cfg config.Config, in, out string) error {
	msg := reporter{quiet: cfg.Quiet}
	f, err := cfg.TextureFormat()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	src, err := readImage(in)
	if err != nil {
		return err
	}
	img := mipmap.ToNRGBA(src)
	for _, p := range processors(cfg) {
		if img, err = p.Process(img); err != nil {
			return fmt.Errorf("prepare %q: %w", in, err)
		}
	}

	levels := []*image.NRGBA{img}
	if cfg.Mipmaps {
		levels = mipmap.Compressible(mipmap.Chain(img))
		if len(levels) == 0 {
			return fmt.Errorf("compress %q: %w: got %dx%d", in, compress.ErrDimensions, img.Bounds().Dx(), img.Bounds().Dy())
		}
	}

	modes := compress.NumberOfModes(f)
	msg.Printf("Compressing %q (%dx%d, %d levels) to %s with %d tries over %d modes...\n",
		in, img.Bounds().Dx(), img.Bounds().Dy(), len(levels), f, opts.Tries, modes)

	results := make([]*texture.Compressed, 0, len(levels))
	for i, level := range levels {
		start := time.Now()
		tex := texture.FromImage(level)
		c, err := compress.CompressTexture(ctx, tex, f, opts)
		if err != nil {
			return fmt.Errorf("compress level %d of %q: %w", i, in, err)
		}
		stats, err := compress.Compare(tex, c)
		if err != nil {
			return fmt.Errorf("verify level %d of %q: %w", i, in, err)
		}
		msg.Printf("Level %d: %dx%d RMSE %.4f, block RMSE %.4f ± %.4f (%s)\n",
			i, c.Width, c.Height, stats.RMSE, stats.BlockAverage, stats.BlockSD,
			time.Since(start).Round(time.Millisecond))
		results = append(results, c)
	}

	if err := writeCompressed(out, results); err != nil {
		return err
	}
	msg.Printf("Wrote %q.\n", out)
	return nil
}
