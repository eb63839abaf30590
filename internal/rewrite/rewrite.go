// Package rewrite produces generated documents by substituting normalized
// values into a template.
package rewrite

import (
	"log/slog"

	"github.com/harshad-dhokane/new-docx/internal/formats"
	"github.com/harshad-dhokane/new-docx/internal/values"
)

// Rewriter substitutes values into template bytes of one kind.
type Rewriter interface {
	Rewrite(template []byte, vals map[string]values.Value) ([]byte, error)
}

// For returns the rewriter for a template kind.
func For(kind formats.Kind, logger *slog.Logger) Rewriter {
	if kind == formats.KindSpreadsheet {
		return NewSpreadsheet(logger)
	}
	return NewDocument(logger)
}
