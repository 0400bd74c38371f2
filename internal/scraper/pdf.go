package scraper

import (
	"net/url"
	"path"
	"strings"
)

const defaultDocumentName = "court_order.pdf"

// samplePDF is served in place of real order documents.
var samplePDF = []byte("%PDF-1.4\n" +
	"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
	"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n" +
	"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n" +
	"trailer\n<< /Root 1 0 R >>\n%%EOF\n")

// Document is a downloadable order document.
type Document struct {
	Filename string
	Content  []byte
}

// OrderDocument returns the document for an order link. Content is a
// placeholder PDF; only the filename is derived from the link.
func OrderDocument(pdfURL string) Document {
	return Document{
		Filename: documentName(pdfURL),
		Content:  append([]byte(nil), samplePDF...),
	}
}

func documentName(pdfURL string) string {
	if unescaped, err := url.QueryUnescape(pdfURL); err == nil {
		pdfURL = unescaped
	}

	name := pdfURL
	if u, err := url.Parse(pdfURL); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(strings.TrimRight(name, "/"))

	if name == "" || name == "." || name == "/" {
		return defaultDocumentName
	}
	// Header-unsafe characters.
	name = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, name)

	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
