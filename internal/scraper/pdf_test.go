package scraper

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderDocumentName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://delhihighcourt.nic.in/orders/CRL.A.100-2025_bail_order.pdf", want: "CRL.A.100-2025_bail_order.pdf"},
		{url: "https%3A%2F%2Ffaridabad.dcourts.gov.in%2Forders%2FCS.123-2024_interim.pdf", want: "CS.123-2024_interim.pdf"},
		{url: "https://court.example/orders/judgment", want: "judgment.pdf"},
		{url: "https://court.example/orders/", want: "orders.pdf"},
		{url: "/", want: defaultDocumentName},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderDocument(tt.url).Filename)
		})
	}
}

func TestOrderDocumentContentIsPDF(t *testing.T) {
	doc := OrderDocument("https://court.example/a.pdf")
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))

	// Callers get their own copy.
	doc.Content[0] = 'X'
	assert.True(t, bytes.HasPrefix(OrderDocument("x").Content, []byte("%PDF-")))
}
