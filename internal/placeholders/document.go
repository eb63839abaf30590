package placeholders

import (
	"log/slog"
	"strings"

	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/pkg/docx"
)

type documentTags struct{}

// DocumentTags reads tag names with the DOCX tag engine.
func DocumentTags() Strategy { return documentTags{} }

func (documentTags) Name() string { return "document_tags" }

func (documentTags) Extract(data []byte) (*Set, error) {
	names, err := docx.ParseTags(data)
	if err != nil {
		return NewSet(), err
	}
	return NewSet(names...), nil
}

type byteHeuristic struct{}

// ByteHeuristic approximates text from raw bytes and scans it for
// double-brace placeholders only.
func ByteHeuristic() Strategy { return byteHeuristic{} }

func (byteHeuristic) Name() string { return "byte_heuristic" }

func (byteHeuristic) Extract(data []byte) (*Set, error) {
	return ScanWith(ReconstructText(data), DoubleBrace), nil
}

// ReconstructText maps raw bytes to approximate text. A run of NUL bytes
// becomes one space; printable ASCII, tab, CR, LF, and bytes above 0x7F pass
// through; other control bytes are dropped.
func ReconstructText(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))

	inNull := false
	for _, c := range data {
		if c == 0 {
			if !inNull {
				b.WriteByte(' ')
				inNull = true
			}
			continue
		}
		inNull = false

		switch {
		case c == '\t' || c == '\n' || c == '\r':
			b.WriteByte(c)
		case c >= 0x20 && c < 0x7F:
			b.WriteByte(c)
		case c > 0x7F:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NewDocumentExtractor returns the extractor used for document uploads: tag
// parsing first, byte heuristics when the package cannot be parsed.
func NewDocumentExtractor(logger *slog.Logger) *Extractor {
	return TryInOrder(logger, DocumentTags(), ByteHeuristic())
}

// ForKind selects the extractor for a template kind.
func ForKind(kind formats.Kind, logger *slog.Logger) *Extractor {
	if kind == formats.KindSpreadsheet {
		return NewSpreadsheetExtractor(logger)
	}
	return NewDocumentExtractor(logger)
}
