package docx

import (
	"html"
	"regexp"
	"strings"
)

// Paragraph boundaries and text nodes. Any paragraph open or close starts a
// new text group, so text in nested text boxes forms its own group. Empty
// self-closing <w:t/> elements carry no text and are not matched.
var tokenPattern = regexp.MustCompile(`<w:p[\s>/]|</w:p>|<w:t(?:\s[^>]*[^/>])?\s*>[^<]*</w:t>`)

type textNode struct {
	start        int // offset of <w:t
	contentStart int
	contentEnd   int
	end          int // offset after </w:t>
	text         string
}

type tag struct {
	start int
	end   int
	name  string
	image bool
}

// textGroups splits a part into paragraph-scoped runs of text nodes.
func textGroups(xml string) [][]textNode {
	var (
		groups  [][]textNode
		current []textNode
	)

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
			current = nil
		}
	}

	for _, loc := range tokenPattern.FindAllStringIndex(xml, -1) {
		token := xml[loc[0]:loc[1]]
		if !strings.HasPrefix(token, "<w:t") {
			flush()
			continue
		}

		open := strings.IndexByte(token, '>') + 1
		cs := loc[0] + open
		ce := loc[1] - len("</w:t>")
		current = append(current, textNode{
			start:        loc[0],
			contentStart: cs,
			contentEnd:   ce,
			end:          loc[1],
			text:         html.UnescapeString(xml[cs:ce]),
		})
	}
	flush()

	return groups
}

func groupText(nodes []textNode) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.text)
	}
	return b.String()
}

// parseTags finds {name} and {{name}} tags in paragraph text. Unbalanced
// braces and empty names are template errors.
func parseTags(part, text string) ([]tag, error) {
	var tags []tag

	for i := 0; i < len(text); {
		switch text[i] {
		case '}':
			return nil, &TemplateError{Part: part, Reason: "unopened tag", Near: excerpt(text, i)}
		case '{':
		default:
			i++
			continue
		}

		width := 1
		if i+1 < len(text) && text[i+1] == '{' {
			width = 2
		}

		rel := strings.IndexAny(text[i+width:], "{}")
		if rel < 0 {
			return nil, &TemplateError{Part: part, Reason: "unclosed tag", Near: excerpt(text, i)}
		}

		closeAt := i + width + rel
		if text[closeAt] == '{' {
			return nil, &TemplateError{Part: part, Reason: "unclosed tag", Near: excerpt(text, i)}
		}
		if width == 2 && (closeAt+1 >= len(text) || text[closeAt+1] != '}') {
			return nil, &TemplateError{Part: part, Reason: "unclosed tag", Near: excerpt(text, i)}
		}

		name := strings.TrimSpace(text[i+width : closeAt])
		image := strings.HasPrefix(name, "%")
		if image {
			name = strings.TrimSpace(name[1:])
		}
		if name == "" {
			return nil, &TemplateError{Part: part, Reason: "empty tag", Near: excerpt(text, i)}
		}

		end := closeAt + width
		tags = append(tags, tag{start: i, end: end, name: name, image: image})
		i = end
	}

	return tags, nil
}

func excerpt(text string, at int) string {
	lo := max(0, at-10)
	hi := min(len(text), at+20)
	return text[lo:hi]
}

// ParseTags returns the distinct tag names declared in a DOCX package in
// order of first appearance.
func ParseTags(data []byte) ([]string, error) {
	a, err := openArchive(data)
	if err != nil {
		return nil, err
	}

	var (
		names []string
		seen  = make(map[string]bool)
	)

	for _, part := range a.contentParts() {
		raw, err := a.read(part)
		if err != nil {
			return nil, err
		}

		for _, group := range textGroups(string(raw)) {
			tags, err := parseTags(part, groupText(group))
			if err != nil {
				return nil, err
			}
			for _, t := range tags {
				if !seen[t.name] {
					seen[t.name] = true
					names = append(names, t.name)
				}
			}
		}
	}

	return names, nil
}
