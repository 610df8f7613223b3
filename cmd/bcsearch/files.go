package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dblezek/tga"
	"github.com/erinpentecost/bcsearch/internal/dds"
	"github.com/erinpentecost/bcsearch/internal/decode"
	"github.com/erinpentecost/bcsearch/internal/pkm"
	"github.com/erinpentecost/bcsearch/internal/texture"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
)

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// readImage loads a source image by file extension.
func readImage(path string) (image.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %q: %w", path, err)
	}
	var img image.Image
	switch ext(path) {
	case ".png":
		img, err = png.Decode(bytes.NewReader(raw))
	case ".bmp":
		img, err = bmp.Decode(bytes.NewReader(raw))
	case ".tga":
		img, err = tga.Decode(bytes.NewReader(raw))
	case ".dds":
		img, err = dds.Decode(raw)
	default:
		return nil, fmt.Errorf("read image %q: unknown extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return img, nil
}

// writeImage saves an uncompressed image by file extension.
func writeImage(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch ext(path) {
	case ".png":
		encode = png.Encode
	case ".bmp":
		encode = bmp.Encode
	case ".dds":
		encode = dds.Encode
	default:
		return fmt.Errorf("write image %q: unknown extension", path)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer out.Close()
	if err := encode(out, img); err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return out.Close()
}

// writeCompressed saves levels in the container picked by the extension of
// path. Image extensions get a decoded preview of the top level.
func writeCompressed(path string, levels []*texture.Compressed) error {
	top := levels[0]
	var buf bytes.Buffer
	switch ext(path) {
	case ".dds":
		if err := dds.WriteCompressed(&buf, levels); err != nil {
			return err
		}
	case ".pkm":
		if err := pkm.Encode(&buf, top); err != nil {
			return err
		}
	case ".raw":
		for _, l := range levels {
			buf.Write(l.Data)
		}
	case ".zst":
		enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("new zstd writer: %w", err)
		}
		for _, l := range levels {
			if _, err := enc.Write(l.Data); err != nil {
				enc.Close()
				return fmt.Errorf("zstd %q: %w", path, err)
			}
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("zstd %q: %w", path, err)
		}
	case ".png", ".bmp":
		t, err := decode.Texture(top)
		if err != nil {
			return fmt.Errorf("preview %q: %w", path, err)
		}
		return writeImage(path, texture.ToImage(t))
	default:
		return fmt.Errorf("write %q: unknown extension", path)
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}

// readCompressed loads the top level of a compressed file. Raw and zstd
// files carry no header, so their format and size must be given.
func readCompressed(path string, f texture.Format, width, height int) (*texture.Compressed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	switch ext(path) {
	case ".dds":
		return dds.ReadCompressed(raw)
	case ".pkm":
		return pkm.Decode(raw)
	case ".zst":
		dec, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("new zstd reader: %w", err)
		}
		defer dec.Close()
		if raw, err = io.ReadAll(dec); err != nil {
			return nil, fmt.Errorf("unzstd %q: %w", path, err)
		}
	case ".raw":
	default:
		return nil, fmt.Errorf("read %q: unknown extension", path)
	}

	if f == texture.Unknown || width <= 0 || height <= 0 || width%4 != 0 || height%4 != 0 {
		return nil, fmt.Errorf("read %q: headerless data needs a format and a size in whole blocks", path)
	}
	size := (width / 4) * (height / 4) * f.BlockSize()
	if len(raw) < size {
		return nil, fmt.Errorf("read %q: %d bytes, want %d", path, len(raw), size)
	}
	return &texture.Compressed{Width: width, Height: height, Format: f, Data: raw[:size]}, nil
}
