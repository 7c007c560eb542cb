// Package model provides the structural representation of an EPUB package:
// the manifest, the spine (canonical reading order), and the table of
// contents tree.
//
// These types are produced by the loaders in the opf and ncx packages and
// consumed through the folio.Book handle. They carry structure only; the
// package document itself remains the authoritative source for metadata
// fields, which are queried live rather than materialized here.
//
// # Structure
//
// A [Spine] is an ordered sequence of [SpineItem], each resolved against a
// [ManifestItem] at build time. A [Toc] is a tree of [NavPoint] entries whose
// Source references point into spine documents. [Toc.PointsFor] links the two:
// it returns every navigation point that targets a given spine href.
package model
