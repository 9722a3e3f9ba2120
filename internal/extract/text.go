package extract

import (
	"bufio"
	"io"
	"strings"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

// TextExtractor handles plain text files. Form feeds are honored as page
// separators; otherwise the whole file is a single page.
type TextExtractor struct{}

func (p *TextExtractor) ExtractPages(r io.Reader, filename string) ([]regdoc.Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var buf strings.Builder
	for scanner.Scan() {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var pages []regdoc.Page
	for i, part := range strings.Split(buf.String(), "\f") {
		pages = append(pages, regdoc.Page{Number: i + 1, Text: part})
	}
	return pages, nil
}
