package regdoc

// Page is one page of extracted text. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// Document is one input file plus its resolved metadata. A Document owns
// its pages and everything derived from them; nothing is shared between
// documents, so they can be processed concurrently without locking.
type Document struct {
	SourcePath string
	Title      string

	// Metadata fields stay nil until the enricher resolves them.
	Jurisdiction *string
	DocDate      *string
	DocVersion   *string
	SourceURL    *string

	Pages []Page

	// FullText is the pages joined with "\n\n"; pageEnds[i] is the
	// cumulative end offset of page i within FullText.
	FullText string
	pageEnds []int
}

// RootSectionID marks text with no recognized structure: the whole-document
// span when no headings were detected, and the implicit section of the
// legacy non-structural chunking modes.
const RootSectionID = "_root"

// PreambleSectionID tags text preceding the first recognized heading.
const PreambleSectionID = "preamble"

// New builds a Document from already-normalized pages, joining them into
// FullText and recording page boundaries for later offset lookups.
func New(sourcePath, title string, pages []Page) *Document {
	d := &Document{
		SourcePath: sourcePath,
		Title:      title,
		Pages:      pages,
	}
	var acc int
	var buf []byte
	for i, p := range pages {
		buf = append(buf, p.Text...)
		acc += len(p.Text)
		if i < len(pages)-1 {
			buf = append(buf, "\n\n"...)
			acc += 2
		}
		d.pageEnds = append(d.pageEnds, acc)
	}
	d.FullText = string(buf)
	return d
}

// PageAt maps a byte offset in FullText to its 1-based page number.
func (d *Document) PageAt(pos int) int {
	for i, end := range d.pageEnds {
		if pos < end {
			return d.Pages[i].Number
		}
	}
	if n := len(d.Pages); n > 0 {
		return d.Pages[n-1].Number
	}
	return 1
}

// PageRange maps a half-open [start,end) offset range to first/last pages.
func (d *Document) PageRange(start, end int) (int, int) {
	if end > start {
		end--
	}
	return d.PageAt(start), d.PageAt(end)
}

// SectionSpan is a contiguous region of FullText bounded by recognized
// headings. Spans of one document are non-overlapping, ordered, and
// together cover the whole text.
type SectionSpan struct {
	ID    string
	Title string
	Depth int
	Start int // byte offset into FullText, inclusive
	End   int // byte offset into FullText, exclusive
}

// Body returns the span's text.
func (s SectionSpan) Body(d *Document) string {
	return d.FullText[s.Start:s.End]
}

// Chunk is one retrieval unit, serialized as a single JSONL record.
// Field order matches the output contract.
type Chunk struct {
	ID                string  `json:"id"`
	DocID             string  `json:"doc_id"`
	SourcePath        string  `json:"source_path"`
	Title             string  `json:"title"`
	Jurisdiction      *string `json:"jurisdiction"`
	DocDate           *string `json:"doc_date"`
	DocVersion        *string `json:"doc_version"`
	SourceURL         *string `json:"source_url"`
	SectionID         string  `json:"section_id"`
	SectionTitle      *string `json:"section_title"`
	NormativeStrength string  `json:"normative_strength"`
	PageStart         int     `json:"page_start"`
	PageEnd           int     `json:"page_end"`
	ChunkIndex        int     `json:"chunk_index"`
	Text              string  `json:"text"`

	// Oversized flags a chunk that could not be split below the target
	// size (an unbreakable atomic unit). Omitted when false.
	Oversized bool `json:"oversized,omitempty"`

	// OverlapLen is the byte length of the duplicated prefix carried
	// over from the previous chunk in the same section. Internal.
	OverlapLen int `json:"-"`
}
