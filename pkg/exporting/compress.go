package exporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix marks a zstd-compressed table, e.g. "aggregated.csv.zst".
const CompressedSuffix = ".zst"

// SplitCompression strips the zstd suffix from path.
func SplitCompression(path string) (string, bool) {
	if strings.HasSuffix(strings.ToLower(path), CompressedSuffix) {
		return path[:len(path)-len(CompressedSuffix)], true
	}
	return path, false
}

func compressor(w io.Writer) (*zstd.Encoder, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return zw, nil
}

func decompress(data []byte) ([]byte, error) {
	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer zr.Close()

	out, err := zr.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
