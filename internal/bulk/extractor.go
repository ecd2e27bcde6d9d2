package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/akjsdfklj/investor-intel-sub000/internal/extract"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/storage/object"
)

// StoreExtractor resolves item content from the object store for uploaded
// decks and over HTTP for pasted URLs.
type StoreExtractor struct {
	Store object.ObjectStore
}

func (e *StoreExtractor) Extract(ctx context.Context, item Item) (string, error) {
	switch item.SourceKind {
	case SourceURL:
		return extract.FetchURLText(ctx, item.SourceRef)
	case SourceFile:
		if item.SourceRef == "" {
			return "", errors.New("uploaded file is unavailable")
		}
		if e.Store == nil {
			return "", errors.New("object store not configured")
		}
		return extract.ExtractText(ctx, e.Store, item.SourceRef, item.MimeType)
	default:
		return "", fmt.Errorf("unknown source kind %q", item.SourceKind)
	}
}

var _ Extractor = (*StoreExtractor)(nil)
