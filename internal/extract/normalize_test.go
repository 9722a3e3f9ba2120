package extract

import (
	"strings"
	"testing"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bom and tabs", "\ufeffGood\tManufacturing", "Good Manufacturing"},
		{"bom mid-string", "Good\ufeffManufacturing", "GoodManufacturing"},
		{"hyphen line break", "valid-\nation", "validation"},
		{"multi space collapse", "a    b", "a b"},
		{"crlf", "line one\r\nline two", "line one\nline two"},
		{"blank line squeeze", "a\n\n\n\n\nb", "a\n\nb"},
		{"trim", "  body  ", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePages_StripsRepeatingHeadersAndFooters(t *testing.T) {
	header := "EudraLex Volume 4"
	footer := "Page of document"
	var pages []regdoc.Page
	for i := 1; i <= 5; i++ {
		pages = append(pages, regdoc.Page{
			Number: i,
			Text:   header + "\nUnique content for page " + strings.Repeat("x", i) + "\n" + footer,
		})
	}

	out := NormalizePages(pages)
	for _, p := range out {
		if strings.Contains(p.Text, header) {
			t.Errorf("page %d still carries the running header", p.Number)
		}
		if strings.Contains(p.Text, footer) {
			t.Errorf("page %d still carries the footer", p.Number)
		}
		if !strings.Contains(p.Text, "Unique content") {
			t.Errorf("page %d lost its body", p.Number)
		}
	}
}

func TestNormalizePages_KeepsSinglePageIntact(t *testing.T) {
	pages := []regdoc.Page{{Number: 1, Text: "Header\nBody\nFooter"}}
	out := NormalizePages(pages)
	if out[0].Text != "Header\nBody\nFooter" {
		t.Errorf("single page was modified: %q", out[0].Text)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename  string
		supported bool
	}{
		{"annex1.pdf", true},
		{"guidance.txt", true},
		{"notes.md", true},
		{"page.html", true},
		{"draft.docx", true},
		{"image.png", false},
		{"archive.zip", false},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if (err == nil) != tt.supported {
			t.Errorf("ForFile(%q) err = %v, supported = %v", tt.filename, err, tt.supported)
		}
		if got := IsSupportedExtension(tt.filename); got != tt.supported {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", tt.filename, got, tt.supported)
		}
	}
}

func TestTextExtractor_FormFeedPages(t *testing.T) {
	in := "page one text\fpage two text"
	pages, err := (&TextExtractor{}).ExtractPages(strings.NewReader(in), "doc.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].Number != 1 || pages[1].Number != 2 {
		t.Error("pages must be numbered from 1")
	}
	if !strings.Contains(pages[1].Text, "page two") {
		t.Errorf("page 2 text = %q", pages[1].Text)
	}
}

func TestMarkdownExtractor_HeadingsBecomeLines(t *testing.T) {
	in := "# Annex 1 Sterile Products\n\nBody paragraph one.\n\n## 2.1 Scope\n\nScope text."
	pages, err := (&MarkdownExtractor{}).ExtractPages(strings.NewReader(in), "doc.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	for _, want := range []string{"Annex 1 Sterile Products", "Body paragraph one.", "2.1 Scope"} {
		if !strings.Contains(pages[0].Text, want) {
			t.Errorf("markdown page missing %q:\n%s", want, pages[0].Text)
		}
	}
}

func TestHTMLExtractor_FlattensHeadingsAndBlocks(t *testing.T) {
	in := `<html><body><h1>Annex 1 Sterile Products</h1><p>Body text.</p><script>junk()</script></body></html>`
	pages, err := (&HTMLExtractor{}).ExtractPages(strings.NewReader(in), "doc.html")
	if err != nil {
		t.Fatal(err)
	}
	text := pages[0].Text
	if !strings.Contains(text, "Annex 1 Sterile Products") || !strings.Contains(text, "Body text.") {
		t.Errorf("html page missing content:\n%s", text)
	}
	if strings.Contains(text, "junk") {
		t.Error("script content leaked into the page text")
	}
}
