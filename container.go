package folio

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// containerPath is the well-known location of the container descriptor.
const containerPath = "META-INF/container.xml"

// packageMediaType is the rootfile media type of a package document.
const packageMediaType = "application/oebps-package+xml"

// containerXML models META-INF/container.xml.
type containerXML struct {
	XMLName   xml.Name   `xml:"container"`
	Rootfiles []rootfile `xml:"rootfiles>rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// rootfilePath locates the package document: the first rootfile declared
// with the package media type, falling back to the first rootfile present.
// The returned path is archive-relative; its directory is the root prefix
// for every href in the package.
func (b *Book) rootfilePath() (string, error) {
	data, err := b.ReadFile(containerPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s missing", ErrContainerUnreadable, containerPath)
	}

	var c containerXML
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("%w: parse %s: %v", ErrContainerUnreadable, containerPath, err)
	}

	var fallback string
	for _, rf := range c.Rootfiles {
		fullPath := strings.TrimSpace(rf.FullPath)
		if fullPath == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), packageMediaType) {
			return fullPath, nil
		}
		if fallback == "" {
			fallback = fullPath
		}
	}
	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("%w: %s declares no rootfile", ErrContainerUnreadable, containerPath)
}
