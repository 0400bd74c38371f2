package database

import (
	"time"

	"gorm.io/datatypes"
)

// QueryStatus is the lifecycle state of a CaseQuery audit row.
type QueryStatus string

const (
	QueryPending    QueryStatus = "pending"
	QueryProcessing QueryStatus = "processing"
	QuerySuccess    QueryStatus = "success"
	QueryError      QueryStatus = "error"
)

// Terminal reports whether the status closes a query.
func (s QueryStatus) Terminal() bool {
	return s == QuerySuccess || s == QueryError
}

// CaseQuery is the audit trail of one lookup request. It references a case
// number but is not linked to CaseRecord.
type CaseQuery struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CourtID        string         `json:"court_id" gorm:"not null"`
	CaseType       string         `json:"case_type" gorm:"not null"`
	CaseNumber     string         `json:"case_number" gorm:"not null"`
	FilingYear     int            `json:"filing_year" gorm:"not null"`
	QueryTimestamp time.Time      `json:"query_timestamp" gorm:"not null"`
	ResponseData   datatypes.JSON `json:"response_data,omitempty"`
	Status         QueryStatus    `json:"status" gorm:"type:varchar(16);not null;default:pending"`
	ErrorMessage   string         `json:"error_message,omitempty" gorm:"type:text"`
}

// CaseRecord is the stored, normalized state of one case. CaseNumber is unique.
type CaseRecord struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	CaseNumber         string        `json:"case_number" gorm:"uniqueIndex;not null"`
	CourtName          string        `json:"court_name" gorm:"not null"`
	CaseType           string        `json:"case_type" gorm:"not null"`
	FilingDate         string        `json:"filing_date"`
	PartiesPlaintiff   string        `json:"parties_plaintiff"`
	PartiesDefendant   string        `json:"parties_defendant"`
	PetitionerAdvocate string        `json:"petitioner_advocate"`
	RespondentAdvocate string        `json:"respondent_advocate"`
	NextHearingDate    string        `json:"next_hearing_date"`
	CaseStatus         string        `json:"case_status"`
	JudgeName          string        `json:"judge_name"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	Orders             []OrderRecord `json:"orders" gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
}

// OrderRecord is a hearing order owned by exactly one CaseRecord.
type OrderRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CaseID    uint      `json:"case_id" gorm:"not null"`
	OrderDate string    `json:"order_date" gorm:"not null"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary" gorm:"type:text"`
	PDFURL    string    `json:"pdf_url"`
	OrderType string    `json:"order_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (CaseQuery) TableName() string {
	return "case_queries"
}

func (CaseRecord) TableName() string {
	return "case_records"
}

func (OrderRecord) TableName() string {
	return "case_orders"
}
