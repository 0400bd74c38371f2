package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
)

const (
	DelhiHighCourtID    = "delhi_hc"
	FaridabadDistrictID = "faridabad_dc"
	delhiOrdersBase     = "https://delhihighcourt.nic.in/orders/"
	faridabadOrdersBase = "https://faridabad.dcourts.gov.in/orders/"
)

// NewDefaultRegistry registers every court the service supports.
func NewDefaultRegistry(cfg *config.Config, loader PageLoader, log *logger.Logger) *Registry {
	return NewRegistry(
		NewSiteCourt(SiteCourtOptions{
			Info: CourtInfo{
				ID:       DelhiHighCourtID,
				Name:     "Delhi High Court",
				Location: "New Delhi",
			},
			EntryURL:    cfg.DelhiHCURL,
			LinkPattern: `case.*search|search.*case`,
			Canned:      delhiHighCourtCase,
		}, loader, log),
		NewSiteCourt(SiteCourtOptions{
			Info: CourtInfo{
				ID:       FaridabadDistrictID,
				Name:     "District Court Faridabad",
				Location: "Faridabad, Haryana",
			},
			EntryURL:    cfg.FaridabadDCURL,
			LinkPattern: `case.*status|status.*case`,
			Canned:      faridabadDistrictCase,
		}, loader, log),
	)
}

func delhiHighCourtCase(q Query) FetchResult {
	return FetchResult{
		CaseType:           "Criminal Appeal",
		FilingDate:         "2025-01-15",
		PartiesPlaintiff:   "STATE GOVT OF NCT OF DELHI",
		PartiesDefendant:   "JAIDEV & ORS.",
		PetitionerAdvocate: "Public Prosecutor",
		RespondentAdvocate: "Adv. Ramesh Kumar",
		NextHearingDate:    "2025-08-15",
		CaseStatus:         "Under Trial",
		JudgeName:          "Hon'ble Justice Prathiba M. Singh",
		Orders: []Order{
			{
				Date:      "2025-07-31",
				Title:     "Order on Bail Application",
				Summary:   "Bail granted with conditions of Rs. 50,000 surety and surrender of passport",
				PDFURL:    orderURL(delhiOrdersBase, q.CaseNumber, "bail_order"),
				OrderType: "bail_order",
			},
		},
	}
}

func faridabadDistrictCase(q Query) FetchResult {
	return FetchResult{
		CaseType:           "Civil Suit",
		FilingDate:         "2024-03-10",
		PartiesPlaintiff:   "Smt. Sunita Sharma",
		PartiesDefendant:   "Sh. Rajesh Kumar",
		PetitionerAdvocate: "Adv. Vikash Gupta",
		RespondentAdvocate: "Adv. Priya Singh",
		NextHearingDate:    "2025-08-20",
		CaseStatus:         "Pending",
		JudgeName:          "Hon'ble Shri Manoj Kumar, District Judge",
		Orders: []Order{
			{
				Date:      "2024-12-15",
				Title:     "Interim Order",
				Summary:   "Stay granted on property sale pending final decision in the matter",
				PDFURL:    orderURL(faridabadOrdersBase, q.CaseNumber, "interim"),
				OrderType: "interim_order",
			},
		},
	}
}

// orderURL builds a document link like .../orders/CRL.A.798-2025_bail_order.pdf.
func orderURL(base, caseNumber, suffix string) string {
	slug := strings.NewReplacer("/", "-", " ", "").Replace(caseNumber)
	return base + url.PathEscape(fmt.Sprintf("%s_%s.pdf", slug, suffix))
}
