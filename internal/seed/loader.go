package seed

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = validator.New()

// fileLoader implements Loader for JSON files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a seed file. Paths ending in .gz are gunzipped first.
func (l *fileLoader) Load(ctx context.Context, path string) (*Document, error) {
	l.logger.Info().Str("file", path).Msg("loading seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	doc, err := decode(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode seed file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("menu_items", len(doc.MenuItems)).
		Msg("seed file loaded successfully")

	return doc, nil
}

// decode parses and validates a document, transparently handling gzip by name.
func decode(ctx context.Context, r io.Reader, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed document %s: %w", name, err)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid seed document %s: %w", name, err)
	}
	for _, item := range doc.MenuItems {
		if !item.Price.IsPositive() {
			return nil, fmt.Errorf("invalid seed document %s: price of %q must be positive", name, item.Name)
		}
	}

	return &doc, nil
}
