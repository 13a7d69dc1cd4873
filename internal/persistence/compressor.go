package persistence

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"radiomon/internal/structures"
)

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

// NewCompressor picks the snapshot codec from config. The default "none"
// keeps snapshots as plain JSON on disk.
func NewCompressor(conf *structures.Config) (CompressorInterface, error) {
	switch conf.Persistence.Compression {
	case "zstd":
		return NewZstdCompressor()
	default:
		return &PassthroughCompression{}, nil
	}
}

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

// PassthroughCompression stores snapshots uncompressed.
type PassthroughCompression struct{}

func (p *PassthroughCompression) Compress(val []byte) ([]byte, error)   { return val, nil }
func (p *PassthroughCompression) Decompress(val []byte) ([]byte, error) { return val, nil }
func (p *PassthroughCompression) Close()                                {}
