package lookup

import (
	"strconv"
	"strings"

	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
)

// Request is a case lookup as submitted by a client.
type Request struct {
	CourtID    string
	CaseType   string
	CaseNumber string
	FilingYear string
}

// Validate checks required fields in order and coerces the filing year.
func (r Request) Validate() (scraper.Query, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"court_id", r.CourtID},
		{"case_type", r.CaseType},
		{"case_number", r.CaseNumber},
		{"filing_year", r.FilingYear},
	}

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return scraper.Query{}, &ValidationError{
				Field:   f.name,
				Message: "Missing required field: " + f.name,
			}
		}
	}

	year, err := strconv.Atoi(strings.TrimSpace(r.FilingYear))
	if err != nil {
		return scraper.Query{}, &ValidationError{
			Field:   "filing_year",
			Message: "Invalid filing_year: must be an integer",
		}
	}

	return scraper.Query{
		CourtID:    strings.TrimSpace(r.CourtID),
		CaseType:   strings.TrimSpace(r.CaseType),
		CaseNumber: strings.TrimSpace(r.CaseNumber),
		FilingYear: year,
	}, nil
}

// FromRecord converts a stored case into a result tagged as database data.
func FromRecord(record *database.CaseRecord) scraper.FetchResult {
	orders := make([]scraper.Order, 0, len(record.Orders))
	for _, o := range record.Orders {
		orders = append(orders, scraper.Order{
			Date:      o.OrderDate,
			Title:     o.Title,
			Summary:   o.Summary,
			PDFURL:    o.PDFURL,
			OrderType: o.OrderType,
		})
	}

	return scraper.FetchResult{
		CaseNumber:         record.CaseNumber,
		CourtName:          record.CourtName,
		CaseType:           record.CaseType,
		FilingDate:         record.FilingDate,
		PartiesPlaintiff:   record.PartiesPlaintiff,
		PartiesDefendant:   record.PartiesDefendant,
		PetitionerAdvocate: record.PetitionerAdvocate,
		RespondentAdvocate: record.RespondentAdvocate,
		NextHearingDate:    record.NextHearingDate,
		CaseStatus:         record.CaseStatus,
		JudgeName:          record.JudgeName,
		Orders:             orders,
		Source:             scraper.SourceDatabase,
	}
}

// toRecord splits a fetched result into the rows the store persists.
func toRecord(result scraper.FetchResult) (database.CaseRecord, []database.OrderRecord) {
	record := database.CaseRecord{
		CaseNumber:         result.CaseNumber,
		CourtName:          result.CourtName,
		CaseType:           result.CaseType,
		FilingDate:         result.FilingDate,
		PartiesPlaintiff:   result.PartiesPlaintiff,
		PartiesDefendant:   result.PartiesDefendant,
		PetitionerAdvocate: result.PetitionerAdvocate,
		RespondentAdvocate: result.RespondentAdvocate,
		NextHearingDate:    result.NextHearingDate,
		CaseStatus:         result.CaseStatus,
		JudgeName:          result.JudgeName,
	}

	orders := make([]database.OrderRecord, 0, len(result.Orders))
	for _, o := range result.Orders {
		orders = append(orders, database.OrderRecord{
			OrderDate: o.Date,
			Title:     o.Title,
			Summary:   o.Summary,
			PDFURL:    o.PDFURL,
			OrderType: o.OrderType,
		})
	}

	return record, orders
}
