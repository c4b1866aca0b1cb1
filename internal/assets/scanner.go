package assets

import (
	"regexp"
	"sort"
	"strings"
)

// AttrKind distinguishes how an asset reference is embedded in markup.
type AttrKind string

const (
	// AttrSrc is a single-valued attribute: the whole value is one URL.
	AttrSrc AttrKind = "src"
	// AttrSrcset is a list-valued attribute with comma-separated candidates.
	AttrSrcset AttrKind = "srcset"
)

// Ref is one located occurrence of a remote asset URL in a document.
// Start/End delimit the URL bytes themselves, not the surrounding attribute.
type Ref struct {
	URL   string
	Start int
	End   int
	Kind  AttrKind
}

// src attributes are only considered inside img and source tags; tag and
// attribute names match case-insensitively, the URL value is taken verbatim
// up to the closing quote.
var srcAttrRe = regexp.MustCompile(`(?i)<(?:img|source)\b[^>]*?\ssrc\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// srcset attributes are matched in any tag, mirroring the looser historical
// behavior of the system this replaces.
var srcsetAttrRe = regexp.MustCompile(`(?i)\ssrcset\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// Scanner locates remote asset references in document text.
type Scanner struct {
	origins []string
}

// NewScanner returns a scanner matching URLs that begin with one of the
// given origins. Origin order decides which origin claims a URL when
// prefixes overlap.
func NewScanner(origins []string) *Scanner {
	return &Scanner{origins: origins}
}

// Scan returns all references in doc ordered by position.
func (s *Scanner) Scan(doc string) []Ref {
	if len(s.origins) == 0 {
		return nil
	}
	var refs []Ref
	refs = append(refs, s.scanSrc(doc)...)
	refs = append(refs, s.scanSrcset(doc)...)
	sortRefs(refs)
	return refs
}

func sortRefs(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].Start < refs[j].Start })
}

// matchesOrigin reports whether value starts with a configured origin.
func (s *Scanner) matchesOrigin(value string) bool {
	for _, o := range s.origins {
		if strings.HasPrefix(value, o) {
			return true
		}
	}
	return false
}

func (s *Scanner) scanSrc(doc string) []Ref {
	var refs []Ref
	for _, m := range srcAttrRe.FindAllStringSubmatchIndex(doc, -1) {
		start, end := submatchSpan(m)
		if start < 0 {
			continue
		}
		value := doc[start:end]
		if !s.matchesOrigin(value) {
			continue
		}
		refs = append(refs, Ref{URL: value, Start: start, End: end, Kind: AttrSrc})
	}
	return refs
}

func (s *Scanner) scanSrcset(doc string) []Ref {
	var refs []Ref
	for _, m := range srcsetAttrRe.FindAllStringSubmatchIndex(doc, -1) {
		start, end := submatchSpan(m)
		if start < 0 {
			continue
		}
		for _, span := range candidateSpans(doc[start:end]) {
			value := doc[start+span[0] : start+span[1]]
			if !s.matchesOrigin(value) {
				continue
			}
			refs = append(refs, Ref{URL: value, Start: start + span[0], End: start + span[1], Kind: AttrSrcset})
		}
	}
	return refs
}

// submatchSpan returns the span of whichever quoted-value group matched.
func submatchSpan(m []int) (int, int) {
	for _, g := range []int{2, 4} {
		if m[g] >= 0 {
			return m[g], m[g+1]
		}
	}
	return -1, -1
}

// candidateSpans splits a srcset-style value into runs of characters
// delimited by whitespace, commas, or quotes, returning their spans.
// Descriptor tokens ("1x", "480w") come back as runs too; callers filter by
// origin prefix so only URL tokens survive.
func candidateSpans(value string) [][2]int {
	var spans [][2]int
	start := -1
	for i, r := range value {
		if r == ',' || r == '"' || r == '\'' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if start >= 0 {
				spans = append(spans, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, [2]int{start, len(value)})
	}
	return spans
}
