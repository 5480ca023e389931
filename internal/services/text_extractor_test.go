package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

const sampleDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Analyst</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>SQL</w:t></w:r></w:p>
  </w:body>
</w:document>`

// buildPDF writes a single-font PDF with one page per entry. An empty entry
// becomes a page without a content stream.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		contentRef := ""
		if text != "" {
			contentRef = fmt.Sprintf(" /Contents %d 0 R", 5+2*i)
		}
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>%s >>", contentRef))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractPDF(t *testing.T) {
	data := buildPDF(t, "Jane Doe", "", "Data Analyst at ACME")
	text, err := NewTextExtractor().Extract("cv.pdf", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	first := strings.Index(text, "Jane Doe")
	second := strings.Index(text, "Data Analyst at ACME")
	if first < 0 || second < first {
		t.Fatalf("page text missing or out of order: %q", text)
	}

	sniffed, err := NewTextExtractor().Extract("upload", data)
	if err != nil || sniffed != text {
		t.Fatalf("sniffed pdf = %q, %v", sniffed, err)
	}
}

func TestExtractDOCX(t *testing.T) {
	text, err := NewTextExtractor().Extract("cv.docx", buildDOCX(t, sampleDocument))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "Jane Doe\nSenior Analyst\nSkills: SQL"
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestExtractSniffsWithoutExtension(t *testing.T) {
	text, err := NewTextExtractor().Extract("upload", buildDOCX(t, sampleDocument))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text == "" {
		t.Fatalf("expected text from sniffed docx")
	}

	text, err = NewTextExtractor().Extract("", []byte("plain résumé"))
	if err != nil || text != "plain résumé" {
		t.Fatalf("sniffed text = %q, %v", text, err)
	}
}

func TestExtractPlainText(t *testing.T) {
	text, err := NewTextExtractor().Extract("CV.MD", []byte("# Jane\r\n\r\n\r\n  Engineer   at   ACME  \n"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "# Jane\n\nEngineer at ACME" {
		t.Fatalf("got %q", text)
	}
}

func TestExtractFailures(t *testing.T) {
	ex := NewTextExtractor()
	if _, err := ex.Extract("cv.odt", []byte("x")); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("odt: %v", err)
	}
	if _, err := ex.Extract("cv.txt", []byte(" \n\t ")); !errors.Is(err, ErrNoText) {
		t.Fatalf("blank: %v", err)
	}
	if _, err := ex.Extract("cv.docx", []byte("not a zip")); err == nil {
		t.Fatalf("broken docx should fail")
	}
	if _, err := ex.Extract("cv.pdf", []byte("%PDF-1.4 truncated")); err == nil {
		t.Fatalf("broken pdf should fail")
	}
	if _, err := ex.Extract("", []byte{0xff, 0xfe, 0x00}); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("binary without extension: %v", err)
	}
}
