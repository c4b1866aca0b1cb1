// Package markdown provides analysis helpers for markdown documents.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ImageDestinations parses a markdown body and returns the distinct image
// destinations that begin with one of the given origin prefixes, in document
// order. Parsing the AST (rather than grepping the text) keeps destinations
// inside fenced code blocks from being reported.
func ImageDestinations(body []byte, origins []string) []string {
	if len(origins) == 0 {
		return nil
	}
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	seen := make(map[string]bool)
	var dests []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		img, ok := n.(*gmast.Image)
		if !ok {
			return gmast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if seen[dest] || !hasOriginPrefix(dest, origins) {
			return gmast.WalkContinue, nil
		}
		seen[dest] = true
		dests = append(dests, dest)
		return gmast.WalkContinue, nil
	})
	return dests
}

func hasOriginPrefix(dest string, origins []string) bool {
	for _, o := range origins {
		if strings.HasPrefix(dest, o) {
			return true
		}
	}
	return false
}
