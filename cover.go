package folio

import (
	"bytes"
	"errors"
	"image"
	"net/url"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/opf"
)

// ErrNoCover indicates the book declares no recognizable cover image.
var ErrNoCover = errors.New("folio: no cover image")

// Cover locates, reads, and probes the book's cover image. Resolution
// tries, in order: the cover meta entry's manifest id, a manifest item
// carrying the cover-image property, and finally any image item whose id or
// href contains "cover".
//
// Width and Height are zero when the image format cannot be decoded; the
// raw bytes are still returned.
func (b *Book) Cover() (*model.CoverImage, error) {
	pkg, err := b.Package()
	if err != nil {
		return nil, err
	}

	item, ok := coverItem(pkg)
	if !ok {
		return nil, ErrNoCover
	}

	// Manifest hrefs keep their percent escapes; archive entry names do not.
	href := item.Href
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}

	data, err := b.readItem(href)
	if err != nil {
		return nil, err
	}

	cover := &model.CoverImage{
		Path:      pkg.Resolve(href),
		MediaType: item.MediaType,
		Data:      data,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		cover.Width = cfg.Width
		cover.Height = cfg.Height
	}
	return cover, nil
}

// CoverID returns the manifest identifier of the declared cover, or ""
// when the book declares none.
func (b *Book) CoverID() string { return b.pkgString((*opf.Package).CoverID) }

// SetCoverID points the book's cover declaration at the given manifest
// identifier. An empty id deletes the declaration.
func (b *Book) SetCoverID(id string) error {
	return b.pkgWrite(func(p *opf.Package) error { return p.SetCoverID(id) })
}

// coverItem resolves the cover's manifest entry.
func coverItem(pkg *opf.Package) (model.ManifestItem, bool) {
	if id := pkg.CoverID(); id != "" {
		if item, ok := pkg.ManifestItem(id); ok {
			return item, true
		}
	}

	for _, item := range pkg.Manifest() {
		if item.HasProperty("cover-image") {
			return item, true
		}
	}

	for _, item := range pkg.Manifest() {
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		if strings.Contains(strings.ToLower(item.ID), "cover") ||
			strings.Contains(strings.ToLower(item.Href), "cover") {
			return item, true
		}
	}

	return model.ManifestItem{}, false
}
