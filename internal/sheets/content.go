// Package sheets reads spreadsheet cells into a closed set of content shapes
// and resolves each shape to display text.
package sheets

import (
	"strconv"
	"strings"
)

// Content is the value held by a cell. The concrete types are Empty, Text,
// Number, Boolean, RichText, Formula, Hyperlink, and Other.
type Content interface {
	isContent()
}

type (
	Empty struct{}

	Text struct {
		Value string
	}

	// Number keeps the stored representation so display text round-trips.
	Number struct {
		Raw string
	}

	Boolean struct {
		Value bool
	}

	RichText struct {
		Runs []string
	}

	// Formula carries the cached result when the workbook has one.
	Formula struct {
		Formula   string
		Result    string
		Hyperlink string
	}

	Hyperlink struct {
		Text   string
		Target string
	}

	Other struct {
		Value string
	}
)

func (Empty) isContent()     {}
func (Text) isContent()      {}
func (Number) isContent()    {}
func (Boolean) isContent()   {}
func (RichText) isContent()  {}
func (Formula) isContent()   {}
func (Hyperlink) isContent() {}
func (Other) isContent()     {}

// DisplayText resolves content to the text placeholders are matched against.
func DisplayText(c Content) string {
	switch v := c.(type) {
	case Text:
		return v.Value
	case Number:
		return v.Raw
	case Boolean:
		return strconv.FormatBool(v.Value)
	case RichText:
		return strings.Join(v.Runs, "")
	case Formula:
		switch {
		case v.Result != "":
			return v.Result
		case v.Formula != "":
			return v.Formula
		default:
			return v.Hyperlink
		}
	case Hyperlink:
		if v.Text != "" {
			return v.Text
		}
		return v.Target
	case Other:
		return v.Value
	default:
		return ""
	}
}
