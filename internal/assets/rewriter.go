package assets

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/mediamirror/internal/markdown"
)

// Rewriter localizes remote asset references in one document at a time.
type Rewriter struct {
	root    string // output root on the filesystem
	scanner *Scanner
	cache   *Cache
	origins []string
}

// NewRewriter returns a rewriter for documents under root.
func NewRewriter(root string, origins []string, cache *Cache) *Rewriter {
	return &Rewriter{
		root:    root,
		scanner: NewScanner(origins),
		cache:   cache,
		origins: origins,
	}
}

// RewriteDocument scans the document at the output-root-relative path relPath,
// resolves each remote reference through the cache, and rewrites the file in
// place if at least one reference was localized. Returns whether the file
// changed.
func (r *Rewriter) RewriteDocument(ctx context.Context, relPath string) (bool, error) {
	abs := filepath.Join(r.root, filepath.FromSlash(relPath))
	info, err := os.Stat(abs)
	if err != nil {
		return false, fmt.Errorf("stat document: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return false, fmt.Errorf("read document: %w", err)
	}

	doc := string(data)
	var refs []Ref
	if isMarkdown(relPath) {
		refs = markdownRefs(doc, r.origins)
	} else {
		refs = r.scanner.Scan(doc)
	}
	if len(refs) == 0 {
		return false, nil
	}

	rewritten, changed := r.substitute(ctx, relPath, doc, refs)
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(abs, []byte(rewritten), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write document: %w", err)
	}
	return true, nil
}

// substitute replaces each resolved reference span with the asset path
// relative to the document's own directory. Only matched spans are touched;
// unrelated textual occurrences of a URL stay as they are.
func (r *Rewriter) substitute(ctx context.Context, relPath, doc string, refs []Ref) (string, bool) {
	var b strings.Builder
	b.Grow(len(doc))
	last := 0
	changed := false
	for _, ref := range refs {
		if ref.Start < last {
			// Overlapping span, already consumed.
			continue
		}
		local, ok := r.cache.Resolve(ctx, ref.URL)
		if !ok {
			continue
		}
		b.WriteString(doc[last:ref.Start])
		b.WriteString(relativeTo(relPath, local))
		last = ref.End
		changed = true
	}
	b.WriteString(doc[last:])
	return b.String(), changed
}

// relativeTo computes the slash-separated path of assetRel as seen from the
// directory containing docRel (both are output-root-relative). Paths that do
// not climb upward get an explicit "./" prefix.
func relativeTo(docRel, assetRel string) string {
	rel, err := filepath.Rel(path.Dir(docRel), assetRel)
	if err != nil {
		return "./" + assetRel
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}

func isMarkdown(relPath string) bool {
	ext := strings.ToLower(path.Ext(relPath))
	return ext == ".md" || ext == ".markdown"
}

// markdownRefs locates spans for origin-matching image destinations found by
// the markdown parser. The parser decides which destinations count (skipping
// code blocks); the spans themselves come from exact-match patterns so the
// substitution stays byte-precise.
func markdownRefs(doc string, origins []string) []Ref {
	var refs []Ref
	for _, dest := range markdown.ImageDestinations([]byte(doc), origins) {
		re := regexp.MustCompile(`!\[[^\]]*\]\(\s*(` + regexp.QuoteMeta(dest) + `)\s*\)`)
		for _, m := range re.FindAllStringSubmatchIndex(doc, -1) {
			refs = append(refs, Ref{URL: dest, Start: m[2], End: m[3], Kind: AttrSrc})
		}
	}
	sortRefs(refs)
	return refs
}
