package static

import (
	"encoding/xml"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/autoindex/core/handler"
	"github.com/dmitrymomot/autoindex/core/response"
)

// xmlTimeLayout is the mtime layout of XML listings; values are always UTC.
const xmlTimeLayout = "2006-01-02T15:04:05Z"

// view carries request-scoped data the HTML page needs.
type view struct {
	routePath string
	parent    bool // listed directory is below the mount root
	exactSize bool
}

// render dispatches a listing to the renderer of the given format.
func render(f Format, l Listing, v view) (handler.Response, error) {
	switch f {
	case FormatHTML:
		return response.Templ(autoindexPage(pageData{
			RoutePath:   v.routePath,
			Parent:      v.parent,
			ExactSize:   v.exactSize,
			Directories: sortedByName(l.Directories),
			Files:       sortedByName(l.Files),
		})), nil
	case FormatXML:
		return response.XML(newXMLList(l)), nil
	case FormatJSON:
		return response.JSON(newJSONList(l)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

type xmlList struct {
	XMLName xml.Name   `xml:"list"`
	Items   []xmlEntry `xml:",any"`
}

// xmlEntry renders as <directory .../> or <file .../>; Size is a pointer so
// that directories carry no size attribute at all.
type xmlEntry struct {
	XMLName xml.Name
	Name    string `xml:"name,attr"`
	MTime   string `xml:"mtime,attr"`
	Size    *int64 `xml:"size,attr,omitempty"`
}

func newXMLList(l Listing) xmlList {
	items := make([]xmlEntry, 0, l.Len())
	for _, e := range l.Entries() {
		item := xmlEntry{
			XMLName: xml.Name{Local: e.Kind.String()},
			Name:    e.Name,
			MTime:   e.ModTime.UTC().Format(xmlTimeLayout),
		}
		if e.Kind == KindFile {
			size := e.Size
			item.Size = &size
		}
		items = append(items, item)
	}
	return xmlList{Items: items}
}

type jsonEntry struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Size  *int64 `json:"size,omitempty"`
	MTime string `json:"mtime"`
}

func newJSONList(l Listing) []jsonEntry {
	out := make([]jsonEntry, 0, l.Len())
	for _, e := range l.Entries() {
		item := jsonEntry{
			Type:  e.Kind.String(),
			Name:  e.Name,
			MTime: e.ModTime.UTC().Format(http.TimeFormat),
		}
		if e.Kind == KindFile {
			size := e.Size
			item.Size = &size
		}
		out = append(out, item)
	}
	return out
}

const sizeSuffixes = "KMGTPEZY"

// humanSize formats n in binary units: the largest suffix that keeps the
// scaled value below 1024, rounded half to even. Values below 1024 have no
// suffix.
func humanSize(n int64) string {
	const base = 1024
	if n < base {
		return strconv.FormatInt(n, 10)
	}
	v := float64(n)
	for _, suffix := range sizeSuffixes {
		v /= base
		if v < base {
			return strconv.FormatFloat(math.RoundToEven(v), 'f', 0, 64) + string(suffix)
		}
	}
	return strconv.FormatFloat(math.RoundToEven(v), 'f', 0, 64) + "Y"
}

// formatSize picks exact or human-readable output for HTML listings.
func formatSize(n int64, exact bool) string {
	if exact {
		return strconv.FormatInt(n, 10)
	}
	return humanSize(n)
}

// htmlTimeLayout mirrors the classic autoindex column format.
const htmlTimeLayout = "02-Jan-2006 15:04"

func formatHTMLTime(t time.Time) string {
	return t.Format(htmlTimeLayout)
}
