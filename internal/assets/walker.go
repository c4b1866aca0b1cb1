package assets

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// markupExts are the document extensions always scanned for references.
var markupExts = map[string]bool{
	".html": true,
	".htm":  true,
}

// markdownExts are scanned additionally when markdown handling is enabled.
var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
}

// WalkDocuments enumerates documents under root depth-first and returns their
// output-root-relative slash paths. filepath.WalkDir visits entries in
// lexical order per directory, so the result is deterministic. Hidden
// directories are skipped.
func WalkDocuments(root string, includeMarkdown bool) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !markupExts[ext] && !(includeMarkdown && markdownExts[ext]) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
