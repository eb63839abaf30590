package docx_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/harshad-dhokane/new-docx/pkg/docx"
)

const (
	docOpen  = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	docClose = `</w:body></w:document>`
)

func buildDocx(t *testing.T, body string, extra map[string]string) []byte {
	t.Helper()

	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            docOpen + body + docClose,
	}
	for k, v := range extra {
		parts[k] = v
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/_rels/document.xml.rels"} {
		fw, _ := w.Create(name)
		fw.Write([]byte(parts[name]))
		delete(parts, name)
	}
	for name, content := range parts {
		fw, _ := w.Create(name)
		fw.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("build docx: %v", err)
	}
	return buf.Bytes()
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			rc, _ := f.Open()
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return string(b)
		}
	}
	return ""
}

func para(runs ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, r := range runs {
		b.WriteString(`<w:r><w:rPr><w:b/></w:rPr><w:t>` + r + `</w:t></w:r>`)
	}
	b.WriteString("</w:p>")
	return b.String()
}

func TestParseTags(t *testing.T) {
	body := para("Dear {name},") +
		para("Due {{ due_date }} for {na", "me}") +
		para("Signed: {%signature}") +
		para("No tags here")

	header := `<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + para("{company}") + `</w:hdr>`
	data := buildDocx(t, body, map[string]string{"word/header1.xml": header})

	got, err := docx.ParseTags(data)
	if err != nil {
		t.Fatalf("ParseTags() error = %v", err)
	}

	want := []string{"name", "due_date", "signature", "company"}
	if !slices.Equal(got, want) {
		t.Errorf("ParseTags() = %v, want %v", got, want)
	}
}

func TestParseTags_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unclosed", para("Hello {name")},
		{"unopened", para("Hello name}")},
		{"empty", para("Hello { }")},
		{"nested", para("{a {b}}")},
		{"half double", para("{{name}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := docx.ParseTags(buildDocx(t, tt.body, nil))
			var te *docx.TemplateError
			if !errors.As(err, &te) {
				t.Fatalf("ParseTags() error = %v, want TemplateError", err)
			}
			if !strings.Contains(err.Error(), "template") {
				t.Errorf("error %q does not mention template", err)
			}
		})
	}
}

func TestParseTags_TagsDoNotSpanParagraphs(t *testing.T) {
	_, err := docx.ParseTags(buildDocx(t, para("{name")+para("}"), nil))
	if err == nil {
		t.Fatal("ParseTags() succeeded for tag split across paragraphs")
	}
}

func TestParseTags_InvalidArchive(t *testing.T) {
	if _, err := docx.ParseTags([]byte("not a zip")); !errors.Is(err, docx.ErrInvalidArchive) {
		t.Errorf("ParseTags() error = %v, want ErrInvalidArchive", err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("other.xml")
	fw.Write([]byte("<x/>"))
	w.Close()

	if _, err := docx.ParseTags(buf.Bytes()); !errors.Is(err, docx.ErrMissingDocument) {
		t.Errorf("ParseTags() error = %v, want ErrMissingDocument", err)
	}
}

func TestProcess_Text(t *testing.T) {
	body := para("Dear {na", "me}, you owe ", "{amount}") + para("{missing}!")
	data := buildDocx(t, body, nil)

	out, err := docx.Process(data, map[string]any{
		"name":   "Ada & <Co>",
		"amount": 42,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	if !strings.Contains(doc, "Dear Ada &amp; &lt;Co&gt;") {
		t.Errorf("document missing substituted name:\n%s", doc)
	}
	if !strings.Contains(doc, ">42<") {
		t.Errorf("document missing amount:\n%s", doc)
	}
	if strings.Contains(doc, "{") || strings.Contains(doc, "}") {
		t.Errorf("document still has tag braces:\n%s", doc)
	}
	if strings.Count(doc, "<w:b/>") != 4 {
		t.Errorf("run formatting not preserved:\n%s", doc)
	}

	tags, err := docx.ParseTags(out)
	if err != nil || len(tags) != 0 {
		t.Errorf("ParseTags(output) = %v, %v; want no tags", tags, err)
	}
}

func TestProcess_Newlines(t *testing.T) {
	out, err := docx.Process(buildDocx(t, para("{address}"), nil), map[string]any{
		"address": "1 Main St\r\nSpringfield",
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	if !strings.Contains(doc, `1 Main St</w:t><w:br/><w:t xml:space="preserve">Springfield`) {
		t.Errorf("newline not converted to break:\n%s", doc)
	}
}

func TestProcess_SelfClosingElements(t *testing.T) {
	body := `<w:p><w:r><w:t xml:space="preserve"/></w:r><w:r w:rsidR="00A1"/>` +
		`<w:r><w:t>Hi {name}</w:t></w:r><w:r><w:t/></w:r></w:p>`
	data := buildDocx(t, body, nil)

	tags, err := docx.ParseTags(data)
	if err != nil {
		t.Fatalf("ParseTags() error = %v", err)
	}
	if !slices.Equal(tags, []string{"name"}) {
		t.Errorf("ParseTags() = %v, want [name]", tags)
	}

	out, err := docx.Process(data, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	want := `<w:p><w:r><w:t xml:space="preserve"/></w:r><w:r w:rsidR="00A1"/>` +
		`<w:r><w:t xml:space="preserve">Hi Ada</w:t></w:r><w:r><w:t/></w:r></w:p>`
	if !strings.Contains(doc, want) {
		t.Errorf("document structure changed:\n%s", doc)
	}
	if strings.Contains(doc, "&lt;") {
		t.Errorf("markup escaped into text:\n%s", doc)
	}
}

func TestProcess_ImageAfterSelfClosingRun(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	body := `<w:p><w:r w:rsidR="00B2"/><w:r><w:t>{%logo}</w:t></w:r></w:p>`

	out, err := docx.Process(buildDocx(t, body, nil), map[string]any{
		"logo": docx.Image{Data: png, MimeType: "image/png", Extension: "png", Width: 10, Height: 10},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	if !strings.Contains(doc, `<w:p><w:r w:rsidR="00B2"/><w:r><w:t xml:space="preserve"></w:t></w:r><w:r><w:drawing>`) {
		t.Errorf("image run not split at its own run:\n%s", doc)
	}
}

func TestProcess_Image(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	data := buildDocx(t, para("Logo: {%logo} end"), nil)

	out, err := docx.Process(data, map[string]any{
		"logo": docx.Image{Data: png, MimeType: "image/png", Extension: "png", Width: 100, Height: 50, AltText: "Company logo"},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	for _, want := range []string{
		`<wp:extent cx="952500" cy="476250"/>`,
		`r:embed="rIdDocgenImg1"`,
		`descr="Company logo"`,
		`Logo: </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:drawing>`,
		`<w:t xml:space="preserve"> end</w:t>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}

	rels := readPart(t, out, "word/_rels/document.xml.rels")
	if !strings.Contains(rels, `Id="rIdDocgenImg1"`) || !strings.Contains(rels, `Target="media/docgen_image1.png"`) {
		t.Errorf("relationship missing:\n%s", rels)
	}

	if got := readPart(t, out, "word/media/docgen_image1.png"); got != string(png) {
		t.Errorf("media part = %q, want image bytes", got)
	}

	types := readPart(t, out, "[Content_Types].xml")
	if !strings.Contains(types, `<Default Extension="png" ContentType="image/png"/>`) {
		t.Errorf("content type default missing:\n%s", types)
	}
}

func TestProcess_ImageWithoutData(t *testing.T) {
	_, err := docx.Process(buildDocx(t, para("{logo}"), nil), map[string]any{
		"logo": &docx.Image{MimeType: "image/png", Extension: "png"},
	})

	var ie *docx.ImageError
	if !errors.As(err, &ie) {
		t.Fatalf("Process() error = %v, want ImageError", err)
	}
	if !strings.Contains(err.Error(), "image") {
		t.Errorf("error %q does not mention image", err)
	}
}

func TestProcess_TemplateError(t *testing.T) {
	_, err := docx.Process(buildDocx(t, para("{broken"), nil), map[string]any{})
	if !strings.Contains(fmtErr(err), "template") {
		t.Errorf("Process() error = %v, want template error", err)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	data := buildDocx(t, para("{a}")+para("{b}"), nil)
	values := map[string]any{"a": "1", "b": "2"}

	first, err := docx.Process(data, values)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	second, _ := docx.Process(data, values)

	if !bytes.Equal(first, second) {
		t.Error("Process() output differs between identical runs")
	}
}

func TestProcess_UntouchedPartsCopied(t *testing.T) {
	data := buildDocx(t, para("plain"), nil)

	out, err := docx.Process(data, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if readPart(t, out, "word/document.xml") != readPart(t, data, "word/document.xml") {
		t.Error("document without tags was modified")
	}
}

func fmtErr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
