package document

import (
	"context"
	"time"

	"github.com/wms/backend/internal/domain/document"
)

// RefGenerator produces the next free document reference of the form
// PREFIX-YEAR-SEQ. The sequence counter is shared across prefixes
// within a year, so generated references never collide across types.
//
// The lookup below only narrows the race window between two concurrent
// generations; the unique constraint on the docs table is the final
// arbiter, and callers retry with a fresh reference on conflict.
type RefGenerator struct {
	now func() time.Time
}

// NewRefGenerator creates a generator using wall-clock time.
func NewRefGenerator() *RefGenerator {
	return &RefGenerator{now: time.Now}
}

// Next returns the next free reference for the given document type.
func (g *RefGenerator) Next(ctx context.Context, docs document.DocRepository, docType document.DocType) (string, error) {
	year := g.now().Year()
	maxSeq, err := docs.MaxRefSequence(ctx, year)
	if err != nil {
		return "", err
	}
	seq := maxSeq + 1
	for {
		taken, err := docs.RefSequenceTaken(ctx, year, seq)
		if err != nil {
			return "", err
		}
		if !taken {
			break
		}
		seq++
	}
	return document.FormatRef(docType.RefPrefix(), year, seq), nil
}
