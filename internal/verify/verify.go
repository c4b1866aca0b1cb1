// Package verify checks a localized output tree: it reports image references
// that still point at a remote origin and localized references whose target
// file is missing. It never mutates documents.
package verify

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mediamirror/internal/assets"
)

// IssueKind classifies a verification finding.
type IssueKind string

const (
	// KindRemote marks a reference still pointing at a configured origin.
	KindRemote IssueKind = "remote-reference"
	// KindMissing marks a local reference whose target file does not exist.
	KindMissing IssueKind = "missing-local"
)

// Issue is one finding in one document.
type Issue struct {
	Document string
	URL      string
	Kind     IssueKind
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Document, i.URL, i.Kind)
}

// Tree verifies all HTML documents under root against the configured origins.
func Tree(root string, origins []string) ([]Issue, error) {
	docs, err := assets.WalkDocuments(root, false)
	if err != nil {
		return nil, fmt.Errorf("enumerate documents: %w", err)
	}
	var issues []Issue
	for _, doc := range docs {
		found, err := Document(root, doc, origins)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}

// Document verifies one document given by its root-relative slash path.
func Document(root, relPath string, origins []string) ([]Issue, error) {
	abs := filepath.Join(root, filepath.FromSlash(relPath))
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", relPath, err)
	}

	var issues []Issue
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "img" || n.Data == "source") {
			for _, attr := range n.Attr {
				switch strings.ToLower(attr.Key) {
				case "src":
					issues = append(issues, checkRef(root, relPath, attr.Val, origins)...)
				case "srcset":
					for _, cand := range srcsetURLs(attr.Val) {
						issues = append(issues, checkRef(root, relPath, cand, origins)...)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return issues, nil
}

// checkRef classifies a single reference value.
func checkRef(root, relPath, ref string, origins []string) []Issue {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	for _, o := range origins {
		if strings.HasPrefix(ref, o) {
			return []Issue{{Document: relPath, URL: ref, Kind: KindRemote}}
		}
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "//") {
		// Some other absolute reference; not ours to verify.
		return nil
	}
	target := ref
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return nil
	}
	var abs string
	if strings.HasPrefix(target, "/") {
		abs = filepath.Join(root, filepath.FromSlash(target))
	} else {
		abs = filepath.Join(root, filepath.FromSlash(path.Join(path.Dir(relPath), target)))
	}
	if _, err := os.Stat(abs); err != nil {
		return []Issue{{Document: relPath, URL: ref, Kind: KindMissing}}
	}
	return nil
}

// srcsetURLs extracts the URL part of each srcset candidate.
func srcsetURLs(value string) []string {
	var urls []string
	for _, cand := range strings.Split(value, ",") {
		fields := strings.Fields(cand)
		if len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}
