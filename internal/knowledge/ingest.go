package knowledge

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minChunkChars drops boilerplate lines (headers, page numbers) from the index.
const minChunkChars = 30

// ExtractPDF reads a PDF and splits each page's text into indexable chunks,
// keeping the page number so replies can cite it. Chunking is line-based on
// purpose: it never crosses a page boundary, which keeps the page attribution
// exact.
func ExtractPDF(path string) ([]PassageSource, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	docName := filepath.Base(path)
	var passages []PassageSource

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the whole corpus.
			continue
		}

		chunk := 0
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if len(line) < minChunkChars {
				continue
			}
			passages = append(passages, PassageSource{
				DocID:  docName,
				Source: docName,
				Page:   pageNum,
				Chunk:  chunk,
				Text:   line,
			})
			chunk++
		}
	}
	return passages, nil
}
