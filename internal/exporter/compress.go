package exporter

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/anitej-c-501/hdf-position-tracker/internal/config"
)

// Codec wraps report output in a compression stream
type Codec interface {
	// Name is the configuration value selecting the codec
	Name() string
	// Extension is appended to the report file name; empty for none
	Extension() string
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// NewCodec returns the codec for a compression name (none, gzip, zstd, lz4)
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", config.CompressionNone:
		return noneCodec{}, nil
	case config.CompressionGzip:
		return gzipCodec{}, nil
	case config.CompressionZstd:
		return zstdCodec{}, nil
	case config.CompressionLZ4:
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", name)
	}
}

type noneCodec struct{}

func (noneCodec) Name() string      { return config.CompressionNone }
func (noneCodec) Extension() string { return "" }

func (noneCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type gzipCodec struct{}

func (gzipCodec) Name() string      { return config.CompressionGzip }
func (gzipCodec) Extension() string { return ".gz" }

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, gzip.DefaultCompression)
}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

type zstdCodec struct{}

func (zstdCodec) Name() string      { return config.CompressionZstd }
func (zstdCodec) Extension() string { return ".zst" }

func (zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

type lz4Codec struct{}

func (lz4Codec) Name() string      { return config.CompressionLZ4 }
func (lz4Codec) Extension() string { return ".lz4" }

func (lz4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (lz4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
