package extract

import (
	"regexp"
	"strings"

	"github.com/pharmadoc/regchunk/internal/regdoc"
)

var (
	hyphenBreakRe = regexp.MustCompile(`(\w)-\n(\w)`)
	multiSpaceRe  = regexp.MustCompile("[  ]{2,}")
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText cleans one page of extracted text: BOM and tab removal,
// hyphenated line-break rejoin, whitespace collapse, newline
// normalization, blank-line squeeze.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\ufeff", "")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = hyphenBreakRe.ReplaceAllString(s, "$1$2")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// NormalizePages normalizes every page in place and strips repeating
// headers and footers across the page set.
func NormalizePages(pages []regdoc.Page) []regdoc.Page {
	out := make([]regdoc.Page, len(pages))
	for i, p := range pages {
		out[i] = regdoc.Page{Number: p.Number, Text: NormalizeText(p.Text)}
	}
	return stripRepeatingLines(out)
}

const (
	headerLines   = 3
	footerLines   = 3
	repeatedRatio = 0.4
)

// stripRepeatingLines removes lines that appear at the top or bottom of
// at least repeatedRatio of the pages: page headers, footers, running
// titles. Detection runs over the whole page set, then each page is
// trimmed from both ends.
func stripRepeatingLines(pages []regdoc.Page) []regdoc.Page {
	if len(pages) < 2 {
		return pages
	}
	headCount := map[string]int{}
	footCount := map[string]int{}
	for _, p := range pages {
		lines := nonBlankLines(p.Text)
		if len(lines) == 0 {
			continue
		}
		for _, h := range lines[:min(headerLines, len(lines))] {
			headCount[h]++
		}
		for _, f := range lines[max(0, len(lines)-footerLines):] {
			footCount[f]++
		}
	}
	threshold := int(repeatedRatio * float64(len(pages)))
	if threshold < 2 {
		threshold = 2
	}
	headRepeats := map[string]bool{}
	for l, c := range headCount {
		if c >= threshold {
			headRepeats[l] = true
		}
	}
	footRepeats := map[string]bool{}
	for l, c := range footCount {
		if c >= threshold {
			footRepeats[l] = true
		}
	}

	out := make([]regdoc.Page, len(pages))
	for i, p := range pages {
		lines := strings.Split(p.Text, "\n")
		for len(lines) > 0 && headRepeats[strings.TrimSpace(lines[0])] {
			lines = lines[1:]
		}
		for len(lines) > 0 && footRepeats[strings.TrimSpace(lines[len(lines)-1])] {
			lines = lines[:len(lines)-1]
		}
		out[i] = regdoc.Page{Number: p.Number, Text: strings.Join(lines, "\n")}
	}
	return out
}

func nonBlankLines(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			out = append(out, t)
		}
	}
	return out
}
