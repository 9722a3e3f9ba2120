package meta

import (
	"regexp"
	"strings"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

// Options controls which enrichment sources are consulted.
type Options struct {
	Provenance           ProvenanceMap
	JurisdictionFromPath bool
}

// Jurisdiction folder-name keywords, checked against the lowercased
// source path.
var jurisdictionKeywords = []struct {
	label string
	keys  []string
}{
	{"EU", []string{"eu", "ema"}},
	{"US-FDA", []string{"usfda", "fda", "cfr", "21cfr"}},
	{"WHO", []string{"who"}},
	{"PIC/S", []string{"pic"}},
	{"KR-MFDS", []string{"mfds", "kfds", "korea"}},
}

var (
	// 2022-08-25, 2022.8.25, 2022/08/25, or "25 Aug 2022".
	contentDateRe = regexp.MustCompile(`(?i)(20\d{2}[./\- ]\d{1,2}[./\- ]\d{1,2}|[0-3]?\d\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+20\d{2})`)
	// Rev 3.1, Revision 2, Version 1.0, Ver.2.
	contentVersionRe = regexp.MustCompile(`(?i)\b(Rev(?:ision)?|Version|Ver\.?)\s*[:\-]?\s*([A-Za-z]?\d+(?:\.\d+)*)`)

	filenameDateRe    = regexp.MustCompile(`(20\d{2}[._\-]\d{1,2}[._\-]\d{1,2}|20\d{2})`)
	filenameVersionRe = regexp.MustCompile(`(?i)(Rev(?:ision)?|Version|Ver)[._ \-]*([A-Za-z]?\d+(?:\.\d+)*)`)
)

// Enrich resolves the document's metadata fields in strict precedence
// order: the externally supplied provenance map first, then the path
// heuristic for jurisdiction (when enabled), then date/version inference
// from the leading pages and filename. A field resolved at an earlier
// level is never overwritten; fields nobody resolves stay nil.
func Enrich(doc *regdoc.Document, opts Options) {
	if entry, ok := opts.Provenance.Lookup(doc.SourcePath); ok {
		setIfEmpty(&doc.SourceURL, entry.SourceURL)
		setIfEmpty(&doc.DocDate, entry.DocDate)
		setIfEmpty(&doc.DocVersion, entry.DocVersion)
	}

	if opts.JurisdictionFromPath && doc.Jurisdiction == nil {
		if j := inferJurisdiction(doc.SourcePath); j != "" {
			doc.Jurisdiction = &j
		}
	}

	date, version := inferDateVersion(doc)
	setIfEmpty(&doc.DocDate, date)
	setIfEmpty(&doc.DocVersion, version)
}

func inferJurisdiction(path string) string {
	s := strings.ToLower(path)
	for _, jk := range jurisdictionKeywords {
		for _, k := range jk.keys {
			if strings.Contains(s, k) {
				return jk.label
			}
		}
	}
	return ""
}

// inferDateVersion scans the first pages for a publication date and a
// revision token, falling back to the filename.
func inferDateVersion(doc *regdoc.Document) (string, string) {
	var head strings.Builder
	for i, p := range doc.Pages {
		if i >= 3 {
			break
		}
		head.WriteString(p.Text)
		head.WriteString("\n")
	}
	headText := head.String()
	filename := baseName(doc.SourcePath)

	var date, version string
	if m := contentDateRe.FindString(headText); m != "" {
		date = m
	} else if m := filenameDateRe.FindString(filename); m != "" {
		date = m
	}
	if m := contentVersionRe.FindStringSubmatch(headText); m != nil {
		version = m[1] + " " + m[2]
	} else if m := filenameVersionRe.FindStringSubmatch(filename); m != nil {
		version = m[1] + " " + m[2]
	}
	return date, version
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func setIfEmpty(field **string, value string) {
	if *field == nil && value != "" {
		v := value
		*field = &v
	}
}
