// Package loader fetches objects from storage and parses them into frames.
package loader

import (
	"context"
	"log/slog"

	"catalog-kit/internal/decode"
	"catalog-kit/internal/domain"
	"catalog-kit/internal/tabular"
)

// Decoder parses a buffer in a given format. Implementations: decode.Decoder.
type Decoder interface {
	Decode(ctx context.Context, data []byte, format decode.Format) (*tabular.Frame, error)
}

// Loader reads whole objects into memory and decodes them. Use the store's
// Open directly for objects too large to buffer.
type Loader struct {
	store   domain.ObjectStore
	decoder Decoder
	logger  *slog.Logger
}

// NewLoader creates a Loader. A nil logger uses slog.Default().
func NewLoader(store domain.ObjectStore, decoder Decoder, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: store, decoder: decoder, logger: logger}
}

// Fetch reads the whole object. Storage errors are logged and returned unchanged.
func (l *Loader) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	data, err := l.store.Get(ctx, bucket, key)
	if err != nil {
		l.logger.Error("fetch object failed", "bucket", bucket, "key", key, "error", err)
		return nil, err
	}
	l.logger.Info("object fetched", "bucket", bucket, "key", key, "bytes", len(data))
	return data, nil
}

// Parse decodes a buffer according to a format tag (parquet, csv, json,
// excel). An unknown tag fails with *domain.UnsupportedFormatError and a
// malformed buffer with *domain.DecodeError; the frame is nil in both cases.
func (l *Loader) Parse(ctx context.Context, data []byte, format string) (*tabular.Frame, error) {
	f, err := decode.ParseFormat(format)
	if err != nil {
		l.logger.Error("parse object failed", "format", format, "error", err)
		return nil, err
	}
	frame, err := l.decoder.Decode(ctx, data, f)
	if err != nil {
		l.logger.Error("parse object failed", "format", format, "error", err)
		return nil, err
	}
	l.logger.Info("object parsed", "format", format, "rows", frame.NumRows())
	return frame, nil
}

// Load fetches an object and parses it.
func (l *Loader) Load(ctx context.Context, bucket, key, format string) (*tabular.Frame, error) {
	data, err := l.Fetch(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return l.Parse(ctx, data, format)
}

// LoadAuto is Load with the format inferred from the key's extension.
func (l *Loader) LoadAuto(ctx context.Context, bucket, key string) (*tabular.Frame, error) {
	f, err := decode.FormatFromKey(key)
	if err != nil {
		l.logger.Error("infer object format failed", "key", key, "error", err)
		return nil, err
	}
	return l.Load(ctx, bucket, key, string(f))
}
