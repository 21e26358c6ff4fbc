package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Mangal" // covers Devanagari
	fontSize = 12
	headSize = 14
)

// Section is one labeled block of a transcript document.
type Section struct {
	Heading string
	Body    string
}

// TranscriptDocx renders the reviewed transcript pair into a .docx and
// returns its bytes. The document is built in a scratch file and removed
// before returning: transcripts are shown, never archived.
func TranscriptDocx(title string, sections []Section) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}

	addRun(doc.AddParagraph(""), title, true, headSize+2)
	doc.AddParagraph("")

	for _, sec := range sections {
		addRun(doc.AddParagraph(""), sec.Heading, true, headSize)
		for _, line := range strings.Split(sec.Body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			addRun(doc.AddParagraph(""), line, false, fontSize)
		}
		doc.AddParagraph("")
	}

	tmp, err := os.CreateTemp("", "transcript-*.docx")
	if err != nil {
		return nil, fmt.Errorf("scratch file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := doc.SaveTo(tmpPath); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	data, err := os.ReadFile(filepath.Clean(tmpPath))
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	return data, nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
