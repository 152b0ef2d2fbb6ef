package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docchat-backend/internal/shared/storage/object"
)

var (
	// ErrNotFound marks a storage key with no stored bytes behind it.
	ErrNotFound = errors.New("document bytes not found")
	// ErrUnsupportedFormat marks a file extension the extractor cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrCorrupt marks a document whose content cannot be decoded.
	ErrCorrupt = errors.New("corrupt document")
)

// FromStore loads the stored object and extracts its text. The caller observes
// either the complete text or an error, never a partial result.
func FromStore(ctx context.Context, store object.ObjectStore, storageKey, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, storageKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: key=%s", ErrNotFound, storageKey)
		}
		return "", fmt.Errorf("open key=%s: %w", storageKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read key=%s: %w", storageKey, err)
	}

	return FromBytes(raw, fileName)
}

// FromBytes extracts text from an in-memory payload, dispatching on the
// file extension (case-insensitive). Supported: .txt, .pdf.
func FromBytes(data []byte, fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt":
		return string(data), nil
	case ".pdf":
		return extractPDF(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
}

// extractPDF walks the document page by page, in page order, and joins page
// texts with a newline.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrCorrupt, i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
