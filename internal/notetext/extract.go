package notetext

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Package notetext extracts plain text from condition notes uploaded as
// documents instead of audio. Document uploads are already-final text: they
// bypass normalization and transcription and land straight in the review
// draft.

// Supported reports whether ext names an extractable document format.
func Supported(ext string) bool {
	switch normalizeExt(ext) {
	case "txt", "docx", "pdf":
		return true
	}
	return false
}

// Extract returns the plain text of a document blob.
func Extract(data []byte, ext string) (string, error) {
	switch normalizeExt(ext) {
	case "txt":
		return strings.TrimSpace(string(data)), nil
	case "docx":
		return extractDocx(data)
	case "pdf":
		return extractPDF(data)
	}
	return "", fmt.Errorf("unsupported document type: %q", ext)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// extractDocx pulls the text runs out of word/document.xml. Paragraph
// boundaries become newlines; everything else in the markup is dropped.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()
		return textFromDocumentXML(rc)
	}
	return "", fmt.Errorf("docx has no word/document.xml")
}

func textFromDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var buf strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteByte('\n')
	}
	return strings.TrimSpace(buf.String()), nil
}
