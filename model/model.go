package model

import (
	"net/url"
	"strings"
)

// ManifestItem is a single entry in the package manifest: one file inside the
// archive, identified by a package-unique ID.
type ManifestItem struct {
	// ID is the manifest identifier, unique within the package.
	ID string

	// Href is the file path relative to the package document directory.
	Href string

	// MediaType is the declared MIME type of the resource.
	MediaType string

	// Properties contains space-separated property values ("nav",
	// "cover-image", ...). Empty for EPUB 2 packages.
	Properties string
}

// HasProperty reports whether the item's properties contain the given token.
func (m ManifestItem) HasProperty(name string) bool {
	for _, p := range strings.Fields(m.Properties) {
		if p == name {
			return true
		}
	}
	return false
}

// SpineItem is one entry in the reading order. Href and MediaType are copied
// from the resolved manifest item when the spine is built.
type SpineItem struct {
	// ID is the manifest identifier referenced by the itemref.
	ID string

	// Href is the content file path relative to the package document
	// directory, with percent-escapes decoded.
	Href string

	// MediaType is the MIME type of the content file.
	MediaType string
}

// Spine is the ordered sequence of content documents that constitutes the
// linear reading order. The order of Items is the order of the itemref
// elements in the package document and is never re-sorted.
type Spine struct {
	// Items holds the spine entries in reading order.
	Items []SpineItem

	// TocPath is the path of the navigation document, relative to the
	// package document directory.
	TocPath string

	// TocMediaType is the declared media type of the navigation document.
	// It distinguishes an NCX ("application/x-dtbncx+xml") from an EPUB 3
	// nav document ("application/xhtml+xml").
	TocMediaType string
}

// NavPoint is one entry in the table of contents: a label, a content
// reference, and nested child entries.
type NavPoint struct {
	// ID is the navigation point identifier.
	ID string

	// Class is the optional class attribute of the navigation point.
	Class string

	// PlayOrder is the advisory ordinal from the navigation document.
	// It is preserved as data but never used as a sort key; sibling order
	// always follows document order.
	PlayOrder int

	// Label is the display text. Empty when the source document omits the
	// label; this is tolerated, not an error.
	Label string

	// Source is the content reference: an href relative to the package
	// document directory, optionally carrying a #fragment suffix. Empty
	// when the source document omits the content element.
	Source string

	// Children holds nested navigation points in document order.
	Children NavPointList
}

// NavPointList is an ordered sequence of sibling navigation points.
type NavPointList []*NavPoint

// Toc is the hierarchical table of contents of a publication.
type Toc struct {
	// Title is the navigation document title (docTitle for NCX).
	Title string

	// Author is the navigation document author, free text. Empty for
	// documents that do not declare one.
	Author string

	// Points holds the top-level navigation points in document order.
	Points NavPointList
}

// PointsFor returns every navigation point, at any depth, whose content
// source resolves to the given spine href. Any fragment suffix on the
// point's source is ignored and percent escapes are decoded before the
// comparison, so a raw source matches a decoded spine href. Matches are
// returned in pre-order, so nesting and document order are preserved.
func (t *Toc) PointsFor(href string) NavPointList {
	if t == nil || href == "" {
		return nil
	}
	var out NavPointList
	var walk func(NavPointList)
	walk = func(points NavPointList) {
		for _, p := range points {
			src := StripFragment(p.Source)
			if decoded, err := url.PathUnescape(src); err == nil {
				src = decoded
			}
			if src == href {
				out = append(out, p)
			}
			walk(p.Children)
		}
	}
	walk(t.Points)
	return out
}

// Len returns the total number of navigation points in the tree, at all
// levels.
func (t *Toc) Len() int {
	if t == nil {
		return 0
	}
	var count func(NavPointList) int
	count = func(points NavPointList) int {
		n := len(points)
		for _, p := range points {
			n += count(p.Children)
		}
		return n
	}
	return count(t.Points)
}

// Walk calls fn for every navigation point in pre-order. It returns after
// visiting all points, or as soon as fn returns false.
func (t *Toc) Walk(fn func(depth int, p *NavPoint) bool) {
	if t == nil {
		return
	}
	var walk func(points NavPointList, depth int) bool
	walk = func(points NavPointList, depth int) bool {
		for _, p := range points {
			if !fn(depth, p) {
				return false
			}
			if !walk(p.Children, depth+1) {
				return false
			}
		}
		return true
	}
	walk(t.Points, 0)
}

// StripFragment returns src without a trailing #fragment suffix.
func StripFragment(src string) string {
	if i := strings.IndexByte(src, '#'); i >= 0 {
		return src[:i]
	}
	return src
}

// Author is one dc:creator entry: a display name plus its sort key.
type Author struct {
	// Name is the display name ("Charles Dickens").
	Name string

	// FileAs is the sort key ("Dickens, Charles"). May be empty.
	FileAs string
}

// Identifier is one dc:identifier entry.
type Identifier struct {
	// Value is the identifier text (ISBN, UUID, URI, ...).
	Value string

	// Scheme is the declared scheme attribute value, in its original
	// spelling ("UUID", "uuid", "URN", ...).
	Scheme string
}

// CoverImage is a resolved cover: its location in the archive, its raw bytes,
// and probed pixel dimensions.
type CoverImage struct {
	// Path is the cover file path relative to the package document
	// directory.
	Path string

	// MediaType is the MIME type declared in the manifest.
	MediaType string

	// Data is the raw image bytes.
	Data []byte

	// Width and Height are the probed pixel dimensions. Both are zero when
	// the image format could not be decoded.
	Width  int
	Height int
}
