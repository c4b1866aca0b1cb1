package assets

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

// cmsSubdir is the directory under the image dir that holds mirrored assets.
const cmsSubdir = "cms"

// filePrefix prefixes every derived filename so mirrored assets are
// recognizable in the output tree.
const filePrefix = "cms-image"

// defaultExt is used when the source URL carries no recognized image extension.
const defaultExt = "jpg"

// allowedExts is the whitelist of extensions taken over from the source URL.
var allowedExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"avif": true,
}

// Namer derives deterministic local paths for remote asset URLs.
// The zero value is not usable; construct with NewNamer.
type Namer struct {
	imageDir string
}

// NewNamer returns a Namer placing assets under imageDir (interpreted
// relative to the output root, e.g. "./images").
func NewNamer(imageDir string) Namer {
	return Namer{imageDir: imageDir}
}

// LocalPath returns the output-root-relative, slash-separated path for the
// given remote URL: <imageDir>/cms/cms-image-<md5(url)>.<ext>.
//
// The hash is computed over the exact URL string, so the mapping is pure and
// stable across runs and processes. Malformed URLs never fail; they simply
// fall back to the default extension.
func (n Namer) LocalPath(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	name := filePrefix + "-" + hex.EncodeToString(sum[:]) + "." + extensionFor(rawURL)
	return path.Join(n.imageDir, cmsSubdir, name)
}

// extensionFor extracts a whitelisted image extension from the URL's
// percent-decoded path, or returns the default.
func extensionFor(rawURL string) string {
	p := urlPath(rawURL)
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if allowedExts[ext] {
		return ext
	}
	return defaultExt
}

// urlPath returns the decoded path component of rawURL, degrading gracefully
// for strings the URL parser rejects.
func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Path
	}
	// Strip query/fragment manually and try to decode what is left.
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if dec, err := url.PathUnescape(p); err == nil {
		return dec
	}
	return p
}
