package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	emuPerPixel = 9525

	defaultWidth  = 400
	defaultHeight = 300

	imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	contentTypes = "[Content_Types].xml"

	markerOpen  = '\uE000'
	markerClose = '\uE001'
)

var (
	runPattern = regexp.MustCompile(`(?s)<w:r(?:\s[^>]*[^/>])?\s*>.*?</w:r>`)
	rPrPattern = regexp.MustCompile(`(?s)<w:rPr>.*?</w:rPr>|<w:rPr/>`)
	markerExpr = regexp.MustCompile(`\x{E000}(\d+)\x{E001}`)

	xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

type embedded struct {
	image Image
	tag   string
	relID string
	media string
	docPr int
}

type processor struct {
	values   map[string]any
	images   []embedded
	partRels map[string][]int
}

// Process substitutes tag values throughout the package and returns the new
// archive. Values may be strings, Image or *Image; other types are formatted
// with fmt. Tags without a value render as empty text.
func Process(data []byte, values map[string]any) ([]byte, error) {
	a, err := openArchive(data)
	if err != nil {
		return nil, err
	}

	p := &processor{values: values, partRels: make(map[string][]int)}
	rewritten := make(map[string][]byte)

	for _, part := range a.contentParts() {
		raw, err := a.read(part)
		if err != nil {
			return nil, err
		}

		out, changed, err := p.rewritePart(part, string(raw))
		if err != nil {
			return nil, err
		}
		if changed {
			rewritten[part] = []byte(out)
		}
	}

	added := make(map[string][]byte)
	var order []string

	if len(p.images) > 0 {
		if err := p.attachImages(a, rewritten, added, &order); err != nil {
			return nil, err
		}
	}

	return writeArchive(a, rewritten, added, order)
}

func (p *processor) rewritePart(part, xml string) (string, bool, error) {
	var (
		b       strings.Builder
		last    int
		changed bool
	)

	for _, group := range textGroups(xml) {
		tags, err := parseTags(part, groupText(group))
		if err != nil {
			return "", false, err
		}
		if len(tags) == 0 {
			continue
		}

		texts, err := p.substitute(part, group, tags)
		if err != nil {
			return "", false, err
		}

		for i, node := range group {
			b.WriteString(xml[last:node.start])
			b.WriteString(`<w:t xml:space="preserve">`)
			b.WriteString(encodeText(texts[i]))
			b.WriteString(`</w:t>`)
			last = node.end
		}
		changed = true
	}

	if !changed {
		return xml, false, nil
	}
	b.WriteString(xml[last:])

	out := b.String()
	if strings.ContainsRune(out, markerOpen) {
		out = p.splitImageRuns(out)
	}
	return out, true, nil
}

// substitute computes the new text of each node in a group. A tag's
// replacement lands in the node where the tag starts; every character of the
// tag is removed from the nodes it spans.
func (p *processor) substitute(part string, nodes []textNode, tags []tag) ([]string, error) {
	offsets := make([]int, len(nodes)+1)
	for i, n := range nodes {
		offsets[i+1] = offsets[i] + len(n.text)
	}
	text := groupText(nodes)

	out := make([]strings.Builder, len(nodes))
	copyRange := func(from, to int) {
		for i := range nodes {
			lo := max(from, offsets[i])
			hi := min(to, offsets[i+1])
			if lo < hi {
				out[i].WriteString(text[lo:hi])
			}
		}
	}
	nodeAt := func(pos int) int {
		for i := range nodes {
			if pos >= offsets[i] && pos < offsets[i+1] {
				return i
			}
		}
		return len(nodes) - 1
	}

	pos := 0
	for _, t := range tags {
		copyRange(pos, t.start)
		repl, err := p.replacement(part, t)
		if err != nil {
			return nil, err
		}
		out[nodeAt(t.start)].WriteString(repl)
		pos = t.end
	}
	copyRange(pos, len(text))

	texts := make([]string, len(nodes))
	for i := range out {
		texts[i] = out[i].String()
	}
	return texts, nil
}

func (p *processor) replacement(part string, t tag) (string, error) {
	v, ok := p.values[t.name]
	if !ok || v == nil {
		return "", nil
	}

	var img *Image
	switch val := v.(type) {
	case string:
		return sanitizeText(val), nil
	case Image:
		img = &val
	case *Image:
		img = val
	default:
		return sanitizeText(fmt.Sprint(val)), nil
	}

	if len(img.Data) == 0 {
		return "", &ImageError{Tag: t.name, Reason: "empty image data"}
	}
	if img.Extension == "" || img.MimeType == "" {
		return "", &ImageError{Tag: t.name, Reason: "unknown image format"}
	}

	embed := *img
	if embed.Width <= 0 || embed.Height <= 0 {
		embed.Width, embed.Height = defaultWidth, defaultHeight
	}

	idx := len(p.images)
	n := idx + 1
	p.images = append(p.images, embedded{
		image: embed,
		tag:   t.name,
		relID: "rIdDocgenImg" + strconv.Itoa(n),
		media: "media/docgen_image" + strconv.Itoa(n) + "." + strings.TrimPrefix(img.Extension, "."),
		docPr: 10000 + n,
	})
	p.partRels[part] = append(p.partRels[part], idx)

	return string(markerOpen) + strconv.Itoa(idx) + string(markerClose), nil
}

// sanitizeText normalizes line endings and drops the private-use runes the
// engine reserves for image markers.
func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == markerOpen || r == markerClose {
			return -1
		}
		return r
	}, s)
}

func encodeText(s string) string {
	s = xmlEscaper.Replace(s)
	return strings.ReplaceAll(s, "\n", `</w:t><w:br/><w:t xml:space="preserve">`)
}

// splitImageRuns closes the run around each image marker, emits a drawing
// run with the same properties, and reopens the text run.
func (p *processor) splitImageRuns(xml string) string {
	return runPattern.ReplaceAllStringFunc(xml, func(run string) string {
		if !strings.ContainsRune(run, markerOpen) {
			return run
		}

		rPr := rPrPattern.FindString(run)
		return markerExpr.ReplaceAllStringFunc(run, func(m string) string {
			idx, _ := strconv.Atoi(markerExpr.FindStringSubmatch(m)[1])
			return `</w:t></w:r><w:r>` + rPr + drawingXML(p.images[idx]) +
				`</w:r><w:r>` + rPr + `<w:t xml:space="preserve">`
		})
	})
}

func drawingXML(e embedded) string {
	cx := e.image.Width * emuPerPixel
	cy := e.image.Height * emuPerPixel
	alt := xmlEscaper.Replace(e.image.AltText)
	name := xmlEscaper.Replace(e.tag)

	return fmt.Sprintf(`<w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="%s" descr="%s"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="0" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`,
		cx, cy, e.docPr, name, alt, name, e.relID, cx, cy)
}

// attachImages adds media parts, per-part relationships, and content type
// defaults for every embedded image.
func (p *processor) attachImages(a *archive, rewritten, added map[string][]byte, order *[]string) error {
	parts := make([]string, 0, len(p.partRels))
	for part := range p.partRels {
		parts = append(parts, part)
	}
	sort.Strings(parts)

	for _, part := range parts {
		idxs := p.partRels[part]
		rels := relsName(part)

		var xml string
		if raw, ok := rewritten[rels]; ok {
			xml = string(raw)
		} else if _, ok := a.files[rels]; ok {
			raw, err := a.read(rels)
			if err != nil {
				return err
			}
			xml = string(raw)
		} else {
			xml = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
		}

		var b strings.Builder
		for _, idx := range idxs {
			e := p.images[idx]
			fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, e.relID, imageRelType, e.media)
		}

		at := strings.LastIndex(xml, "</Relationships>")
		if at < 0 {
			return fmt.Errorf("%w: malformed %s", ErrInvalidArchive, rels)
		}
		xml = xml[:at] + b.String() + xml[at:]

		if _, ok := a.files[rels]; ok {
			rewritten[rels] = []byte(xml)
		} else {
			added[rels] = []byte(xml)
			*order = append(*order, rels)
		}
	}

	for _, e := range p.images {
		name := "word/" + e.media
		added[name] = e.image.Data
		*order = append(*order, name)
	}

	raw, err := a.read(contentTypes)
	if err != nil {
		return err
	}
	types := string(raw)

	var defaults strings.Builder
	seen := make(map[string]bool)
	for _, e := range p.images {
		ext := strings.ToLower(strings.TrimPrefix(e.image.Extension, "."))
		if seen[ext] || hasDefault(types, ext) {
			continue
		}
		seen[ext] = true
		fmt.Fprintf(&defaults, `<Default Extension="%s" ContentType="%s"/>`, ext, e.image.MimeType)
	}

	if defaults.Len() > 0 {
		at := strings.LastIndex(types, "</Types>")
		if at < 0 {
			return fmt.Errorf("%w: malformed %s", ErrInvalidArchive, contentTypes)
		}
		types = types[:at] + defaults.String() + types[at:]
		rewritten[contentTypes] = []byte(types)
	}

	return nil
}

func hasDefault(types, ext string) bool {
	lower := strings.ToLower(types)
	return strings.Contains(lower, `extension="`+ext+`"`)
}

func writeArchive(a *archive, rewritten, added map[string][]byte, order []string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, f := range a.reader.File {
		data, ok := rewritten[f.Name]
		if !ok {
			if err := w.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}

		if err := writeEntry(w, f.Name, f.Modified, data); err != nil {
			return nil, err
		}
	}

	for _, name := range order {
		if err := writeEntry(w, name, a.reader.File[0].Modified, added[name]); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(w *zip.Writer, name string, modified time.Time, data []byte) error {
	fw, err := w.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
