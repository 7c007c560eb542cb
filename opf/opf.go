package opf

import (
	"errors"
	"fmt"
	"net/url"
	"path"

	"github.com/beevik/etree"

	"github.com/tsawler/folio/model"
)

// Package document errors.
var (
	// ErrMalformed indicates the package document could not be parsed or
	// lacks the required root element.
	ErrMalformed = errors.New("opf: malformed package document")

	// ErrMissingTocRef indicates the spine declares no resolvable reference
	// to a navigation document.
	ErrMissingTocRef = errors.New("opf: spine has no table-of-contents reference")

	// ErrDanglingSpineRef indicates an itemref idref with no manifest entry.
	ErrDanglingSpineRef = errors.New("opf: spine reference has no manifest entry")
)

// GuideRef is one reference entry from the optional guide section.
type GuideRef struct {
	Type  string
	Title string
	Href  string
}

// Package is a parsed, editable package document.
//
// The manifest is read once at parse time and is immutable afterwards. The
// spine is built once on first use and cached; metadata is never cached and
// always queried against the live document. A Package is not safe for
// concurrent use.
type Package struct {
	doc  *etree.Document
	path string // archive path of the package document
	dir  string // archive directory containing it ("" when at root)

	manifest []model.ManifestItem
	byID     map[string]model.ManifestItem
	guide    []GuideRef

	spine *model.Spine
}

// Parse parses the package document read from archivePath.
func Parse(data []byte, archivePath string) (*Package, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "package" {
		return nil, fmt.Errorf("%w: missing package root element", ErrMalformed)
	}

	dir := path.Dir(archivePath)
	if dir == "." {
		dir = ""
	}

	p := &Package{
		doc:  doc,
		path: archivePath,
		dir:  dir,
	}
	p.loadManifest()
	p.loadGuide()

	return p, nil
}

// loadManifest reads the manifest section into the immutable item list.
func (p *Package) loadManifest() {
	p.byID = make(map[string]model.ManifestItem)

	manifest := p.doc.Root().SelectElement("manifest")
	if manifest == nil {
		return
	}

	for _, el := range manifest.SelectElements("item") {
		item := model.ManifestItem{
			ID:         el.SelectAttrValue("id", ""),
			Href:       el.SelectAttrValue("href", ""),
			MediaType:  el.SelectAttrValue("media-type", ""),
			Properties: el.SelectAttrValue("properties", ""),
		}
		if item.ID == "" {
			continue
		}
		p.manifest = append(p.manifest, item)
		if _, exists := p.byID[item.ID]; !exists {
			p.byID[item.ID] = item
		}
	}
}

// loadGuide reads the optional guide section.
func (p *Package) loadGuide() {
	guide := p.doc.Root().SelectElement("guide")
	if guide == nil {
		return
	}
	for _, el := range guide.SelectElements("reference") {
		p.guide = append(p.guide, GuideRef{
			Type:  el.SelectAttrValue("type", ""),
			Title: el.SelectAttrValue("title", ""),
			Href:  el.SelectAttrValue("href", ""),
		})
	}
}

// Path returns the archive path of the package document.
func (p *Package) Path() string {
	return p.path
}

// Version returns the package version attribute, defaulting to "2.0".
func (p *Package) Version() string {
	v := p.doc.Root().SelectAttrValue("version", "")
	if v == "" {
		return "2.0"
	}
	return v
}

// Resolve turns an href relative to the package document into an archive
// path.
func (p *Package) Resolve(href string) string {
	if href == "" {
		return ""
	}
	if p.dir == "" {
		return href
	}
	return path.Join(p.dir, href)
}

// Manifest returns the manifest items in document order.
func (p *Package) Manifest() []model.ManifestItem {
	return append([]model.ManifestItem(nil), p.manifest...)
}

// ManifestItem looks up a manifest entry by its identifier.
func (p *Package) ManifestItem(id string) (model.ManifestItem, bool) {
	item, ok := p.byID[id]
	return item, ok
}

// Guide returns the guide references, or nil when the package has no guide
// section.
func (p *Package) Guide() []GuideRef {
	return append([]GuideRef(nil), p.guide...)
}

// Spine builds the reading order from the spine section, resolving every
// itemref against the manifest. The result is built once and cached; the
// spine element is treated as read-only after parsing.
//
// The itemref order in the document is the canonical reading order and is
// preserved exactly.
func (p *Package) Spine() (*model.Spine, error) {
	if p.spine != nil {
		return p.spine, nil
	}

	spineEl := p.doc.Root().SelectElement("spine")
	if spineEl == nil {
		return nil, ErrMissingTocRef
	}

	tocPath, tocMediaType, err := p.tocReference(spineEl)
	if err != nil {
		return nil, err
	}

	spine := &model.Spine{
		TocPath:      tocPath,
		TocMediaType: tocMediaType,
	}

	for _, ref := range spineEl.SelectElements("itemref") {
		idref := ref.SelectAttrValue("idref", "")
		item, ok := p.byID[idref]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrDanglingSpineRef, idref)
		}
		spine.Items = append(spine.Items, model.SpineItem{
			ID:        item.ID,
			Href:      unescapeHref(item.Href),
			MediaType: item.MediaType,
		})
	}

	p.spine = spine
	return spine, nil
}

// tocReference resolves the navigation document: the spine's toc attribute
// for EPUB 2, falling back to the manifest item carrying the nav property
// for EPUB 3 packages that omit the attribute.
func (p *Package) tocReference(spineEl *etree.Element) (string, string, error) {
	if tocID := spineEl.SelectAttrValue("toc", ""); tocID != "" {
		item, ok := p.byID[tocID]
		if !ok {
			return "", "", fmt.Errorf("%w: toc id %q", ErrMissingTocRef, tocID)
		}
		return unescapeHref(item.Href), item.MediaType, nil
	}

	for _, item := range p.manifest {
		if item.HasProperty("nav") {
			return unescapeHref(item.Href), item.MediaType, nil
		}
	}

	return "", "", ErrMissingTocRef
}

// Bytes serializes the current package document.
func (p *Package) Bytes() ([]byte, error) {
	return p.doc.WriteToBytes()
}

// reload re-serializes and re-parses the backing document. Called after
// every mutation so subsequent queries run against a fresh tree; see the
// package documentation for the contract.
func (p *Package) reload() error {
	data, err := p.doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("opf: serialize package document: %w", err)
	}

	fresh := etree.NewDocument()
	if err := fresh.ReadFromBytes(data); err != nil {
		return fmt.Errorf("%w: reparse after write: %v", ErrMalformed, err)
	}

	p.doc = fresh
	return nil
}

// unescapeHref decodes percent-escaped characters in an href.
func unescapeHref(href string) string {
	if decoded, err := url.PathUnescape(href); err == nil {
		return decoded
	}
	return href
}
