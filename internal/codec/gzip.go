package codec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Gzip сжимает закодированный payload
type Gzip struct {
	Level int
}

// NewGzip returns a gzip stage; level 0 means gzip.DefaultCompression.
func NewGzip(level int) *Gzip {
	if level == 0 {
		level = gzip.DefaultCompression
	}
	return &Gzip{Level: level}
}

func (g *Gzip) Name() string { return "gzip" }

// Apply сжимает данные
func (g *Gzip) Apply(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, g.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Reverse распаковывает данные
func (g *Gzip) Reverse(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
