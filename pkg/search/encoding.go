package search

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// IndexFileEncoded reads the file at path in the given character set
// (an IANA name such as "ISO-8859-1"), decodes it to UTF-8 and indexes it
// under slug. An empty or UTF-8 charset behaves like IndexFile.
func (e *Engine) IndexFileEncoded(ctx context.Context, path, slug, charset string) (int, error) {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return e.IndexFile(ctx, path, slug)
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return 0, fmt.Errorf("search: unknown charset %q", charset)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("search: read %q: %w", path, err)
	}
	defer f.Close()

	decoded, err := io.ReadAll(transform.NewReader(f, enc.NewDecoder()))
	if err != nil {
		return 0, fmt.Errorf("search: decode %q as %s: %w", path, charset, err)
	}
	return e.IndexText(ctx, string(decoded), slug)
}
