package folio

import (
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/ncx"
	"github.com/tsawler/folio/opf"
)

// ncxMediaType is the declared media type of an EPUB 2 NCX document.
const ncxMediaType = "application/x-dtbncx+xml"

// Toc returns the table of contents, parsing the navigation document on
// first use. The spine's toc reference decides the parser: an NCX media
// type selects the NCX parser, anything else is treated as an EPUB 3 nav
// document.
//
// The result is cached, errors included, for the lifetime of the handle;
// the navigation document is read-only once parsed.
func (b *Book) Toc() (*model.Toc, error) {
	if b.tocDone {
		return b.toc, b.tocErr
	}

	b.toc, b.tocErr = b.loadToc()
	b.tocDone = true
	return b.toc, b.tocErr
}

func (b *Book) loadToc() (*model.Toc, error) {
	spine, err := b.Spine()
	if err != nil {
		return nil, err
	}

	data, err := b.readItem(spine.TocPath)
	if err != nil {
		return nil, err
	}

	if spine.TocMediaType == ncxMediaType {
		return ncx.Parse(data)
	}
	return ncx.ParseNav(data)
}

// NavPointsFor returns every TOC entry, at any depth, whose content source
// resolves to the given spine href, in pre-order. The href is relative to
// the package document, as spine item hrefs are.
func (b *Book) NavPointsFor(href string) (model.NavPointList, error) {
	toc, err := b.Toc()
	if err != nil {
		return nil, err
	}
	return toc.PointsFor(href), nil
}

// Guide returns the package guide references, or nil when the package has
// none.
func (b *Book) Guide() ([]opf.GuideRef, error) {
	pkg, err := b.Package()
	if err != nil {
		return nil, err
	}
	return pkg.Guide(), nil
}
