package fragment

// markupTags is the fixed allow-list of tags preserved when KeepMarkup is
// enabled: simple formatting only, nothing that carries attributes or
// references (no images, links, or lists).
var markupTags = map[string]bool{
	"br":     true,
	"p":      true,
	"h1":     true,
	"h2":     true,
	"h3":     true,
	"h4":     true,
	"h5":     true,
	"span":   true,
	"div":    true,
	"i":      true,
	"strong": true,
	"b":      true,
	"table":  true,
	"td":     true,
	"th":     true,
	"tr":     true,
}

// blockTags is the standard HTML block-element classification. A block
// element contributes a separating newline on exit whether or not markup is
// preserved, so adjacent block contents never run together.
var blockTags = map[string]bool{
	"address":    true,
	"article":    true,
	"aside":      true,
	"blockquote": true,
	"canvas":     true,
	"dd":         true,
	"div":        true,
	"dl":         true,
	"dt":         true,
	"fieldset":   true,
	"figcaption": true,
	"figure":     true,
	"footer":     true,
	"form":       true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"header":     true,
	"hr":         true,
	"li":         true,
	"main":       true,
	"nav":        true,
	"noscript":   true,
	"ol":         true,
	"p":          true,
	"pre":        true,
	"section":    true,
	"table":      true,
	"tfoot":      true,
	"ul":         true,
	"video":      true,
}
