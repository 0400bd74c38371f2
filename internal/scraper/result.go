package scraper

// Source records how a case record was obtained.
type Source string

const (
	SourceLiveScraped Source = "live_scraped"
	SourceFallback    Source = "fallback_data"
	SourceDatabase    Source = "database"
)

// Query identifies the case being looked up.
type Query struct {
	CourtID    string
	CaseType   string
	CaseNumber string
	FilingYear int
}

// Order is a hearing order in wire form.
type Order struct {
	Date      string `json:"date"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	PDFURL    string `json:"pdf_url"`
	OrderType string `json:"order_type"`
}

// FetchResult is one case's normalized data plus its provenance. It is passed
// and returned by value.
type FetchResult struct {
	CaseNumber         string  `json:"case_number"`
	CourtName          string  `json:"court_name"`
	CaseType           string  `json:"case_type"`
	FilingDate         string  `json:"filing_date"`
	PartiesPlaintiff   string  `json:"parties_plaintiff"`
	PartiesDefendant   string  `json:"parties_defendant"`
	PetitionerAdvocate string  `json:"petitioner_advocate,omitempty"`
	RespondentAdvocate string  `json:"respondent_advocate,omitempty"`
	NextHearingDate    string  `json:"next_hearing_date"`
	CaseStatus         string  `json:"case_status"`
	JudgeName          string  `json:"judge_name"`
	Orders             []Order `json:"orders"`
	Source             Source  `json:"source"`
	Message            string  `json:"message,omitempty"`
}

// WithSource returns a copy of r tagged with s.
func (r FetchResult) WithSource(s Source) FetchResult {
	r.Source = s
	r.Orders = append([]Order{}, r.Orders...)
	return r
}

// Valid reports whether the result carries the fields every record needs.
func (r FetchResult) Valid() bool {
	return r.CaseNumber != "" && r.CourtName != "" && r.Source != "" && r.Orders != nil
}
