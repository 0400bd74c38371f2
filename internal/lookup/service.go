package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/cache"
	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/JustJay7/court-case-lookup/internal/metrics"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
	"github.com/JustJay7/court-case-lookup/internal/store"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// CaseStore is the persistence the service depends on.
type CaseStore interface {
	FindByCaseNumber(ctx context.Context, caseNumber string) (*database.CaseRecord, error)
	Upsert(ctx context.Context, record database.CaseRecord, orders []database.OrderRecord) (uint, error)
	Delete(ctx context.Context, caseNumber string) error
	RecordQuery(ctx context.Context, courtID, caseType, caseNumber string, filingYear int) (uint, error)
	UpdateQueryOutcome(ctx context.Context, queryID uint, status database.QueryStatus, snapshot []byte, errMsg string) error
	ListRecentQueries(ctx context.Context, limit int) ([]database.CaseQuery, error)
	GetQuery(ctx context.Context, queryID uint) (*database.CaseQuery, error)
	Ping(ctx context.Context) error
	CacheStats() cache.CacheStats
	ClearCache()
}

// Fetcher retrieves cases from court websites.
type Fetcher interface {
	Supports(courtID string) bool
	Courts() []scraper.CourtInfo
	Fetch(ctx context.Context, q scraper.Query) (scraper.FetchResult, error)
}

// Response is the outcome of a successful lookup.
type Response struct {
	QueryID uint
	Data    scraper.FetchResult
	Message string
}

// HistoryEntry is one audit row as exposed to clients.
type HistoryEntry struct {
	ID             uint                 `json:"id"`
	CourtID        string               `json:"court_id"`
	CaseType       string               `json:"case_type"`
	CaseNumber     string               `json:"case_number"`
	FilingYear     int                  `json:"filing_year"`
	QueryTimestamp time.Time            `json:"query_timestamp"`
	Status         database.QueryStatus `json:"status"`
}

// QueryDetail is one audit row with its outcome.
type QueryDetail struct {
	HistoryEntry
	Response     json.RawMessage `json:"response_data,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

const unsupportedCourtLabel = "unsupported"

type Options struct {
	HistoryLimit int
}

// Service orchestrates lookups: audit, cache check, fetch, persist.
type Service struct {
	store        CaseStore
	fetcher      Fetcher
	metrics      *metrics.Metrics
	logger       *logger.Logger
	flights      singleflight.Group
	historyLimit int
}

// NewService wires the orchestrator. m may be nil.
func NewService(st CaseStore, fetcher Fetcher, m *metrics.Metrics, log *logger.Logger, opts Options) *Service {
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = store.DefaultHistoryLimit
	}

	return &Service{
		store:        st,
		fetcher:      fetcher,
		metrics:      m,
		logger:       log,
		historyLimit: limit,
	}
}

// LookupCase validates req, records it in the audit log and returns the
// stored case if present, otherwise fetches and persists it.
func (s *Service) LookupCase(ctx context.Context, req Request) (*Response, error) {
	q, err := req.Validate()
	if err != nil {
		return nil, err
	}

	log := s.logger.With("court_id", q.CourtID, "case_number", q.CaseNumber)

	court := s.courtLabel(q.CourtID)

	queryID, err := s.store.RecordQuery(ctx, q.CourtID, q.CaseType, q.CaseNumber, q.FilingYear)
	if err != nil {
		s.observeLookup(court, "", "error")
		return nil, &PersistenceError{Op: "record query", Err: err}
	}

	if !s.fetcher.Supports(q.CourtID) {
		err := &scraper.UnsupportedCourtError{CourtID: q.CourtID}
		log.Warn("Unsupported court", "query_id", queryID)
		s.failQuery(ctx, log, queryID, err)
		s.observeLookup(court, "", "error")
		return nil, err
	}

	stored, err := s.store.FindByCaseNumber(ctx, q.CaseNumber)
	switch {
	case err == nil:
		result := FromRecord(stored)
		if err := s.succeedQuery(ctx, queryID, result); err != nil {
			s.failQuery(ctx, log, queryID, err)
			s.observeLookup(court, "", "error")
			return nil, err
		}
		log.Info("Case served from database", "query_id", queryID)
		s.observeLookup(court, string(result.Source), "success")
		return &Response{QueryID: queryID, Data: result, Message: "Data retrieved from database"}, nil

	case !errors.Is(err, store.ErrNotFound):
		perr := &PersistenceError{Op: "find case", Err: err}
		s.failQuery(ctx, log, queryID, perr)
		s.observeLookup(court, "", "error")
		return nil, perr
	}

	result, err := s.fetchAndPersist(ctx, q)
	if err != nil {
		log.Error("Lookup failed", "query_id", queryID, "error", err)
		s.failQuery(ctx, log, queryID, err)
		s.observeLookup(court, "", "error")
		return nil, err
	}

	if err := s.succeedQuery(ctx, queryID, result); err != nil {
		s.failQuery(ctx, log, queryID, err)
		s.observeLookup(court, "", "error")
		return nil, err
	}

	log.Info("Case fetched", "query_id", queryID, "source", result.Source)
	s.observeLookup(court, string(result.Source), "success")
	return &Response{
		QueryID: queryID,
		Data:    result,
		Message: fmt.Sprintf("Data successfully scraped from %s", result.CourtName),
	}, nil
}

// fetchAndPersist runs at most once at a time per distinct query; concurrent
// callers asking the same court for the same case share the result.
func (s *Service) fetchAndPersist(ctx context.Context, q scraper.Query) (scraper.FetchResult, error) {
	flightCtx := context.WithoutCancel(ctx)

	v, err, shared := s.flights.Do(flightKey(q), func() (interface{}, error) {
		start := time.Now()
		result, err := s.fetcher.Fetch(flightCtx, q)
		if err != nil {
			return scraper.FetchResult{}, err
		}
		if !result.Valid() {
			return scraper.FetchResult{}, fmt.Errorf("incomplete result for case %q from %s", q.CaseNumber, q.CourtID)
		}
		if s.metrics != nil {
			s.metrics.ObserveFetch(q.CourtID, string(result.Source), time.Since(start))
		}

		record, orders := toRecord(result)
		if _, err := s.store.Upsert(flightCtx, record, orders); err != nil {
			return scraper.FetchResult{}, &PersistenceError{Op: "save case", Err: err}
		}
		return result, nil
	})
	if err != nil {
		return scraper.FetchResult{}, err
	}

	if shared {
		s.logger.Debug("Shared in-flight fetch", "case_number", q.CaseNumber)
	}

	result := v.(scraper.FetchResult)
	return result.WithSource(result.Source), nil
}

// flightKey covers every input the fetched record echoes back.
func flightKey(q scraper.Query) string {
	return fmt.Sprintf("%s|%s|%s|%d", q.CourtID, q.CaseType, q.CaseNumber, q.FilingYear)
}

// courtLabel keeps metric labels to registered court ids.
func (s *Service) courtLabel(courtID string) string {
	if s.fetcher.Supports(courtID) {
		return courtID
	}
	return unsupportedCourtLabel
}

func (s *Service) succeedQuery(ctx context.Context, queryID uint, result scraper.FetchResult) error {
	snapshot, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode response snapshot: %w", err)
	}

	if err := s.store.UpdateQueryOutcome(ctx, queryID, database.QuerySuccess, snapshot, ""); err != nil {
		return &PersistenceError{Op: "close query", Err: err}
	}
	return nil
}

// failQuery marks the audit row as failed. Failures are logged, not returned.
func (s *Service) failQuery(ctx context.Context, log *logger.Logger, queryID uint, cause error) {
	if err := s.store.UpdateQueryOutcome(ctx, queryID, database.QueryError, nil, cause.Error()); err != nil {
		log.Warn("Failed to mark query as failed", "query_id", queryID, "error", err)
	}
}

func (s *Service) observeLookup(court, source, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveLookup(court, source, outcome)
	}
}

// History returns recent audit rows, newest first. limit <= 0 uses the
// configured default.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}

	queries, err := s.store.ListRecentQueries(ctx, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list history", Err: err}
	}

	entries := make([]HistoryEntry, 0, len(queries))
	for _, q := range queries {
		entries = append(entries, historyEntry(q))
	}
	return entries, nil
}

// Query returns one audit row including its response snapshot.
func (s *Service) Query(ctx context.Context, queryID uint) (*QueryDetail, error) {
	q, err := s.store.GetQuery(ctx, queryID)
	if err != nil {
		return nil, err
	}

	detail := &QueryDetail{
		HistoryEntry: historyEntry(*q),
		ErrorMessage: q.ErrorMessage,
	}
	if len(q.ResponseData) > 0 {
		detail.Response = json.RawMessage(q.ResponseData)
	}
	return detail, nil
}

func historyEntry(q database.CaseQuery) HistoryEntry {
	return HistoryEntry{
		ID:             q.ID,
		CourtID:        q.CourtID,
		CaseType:       q.CaseType,
		CaseNumber:     q.CaseNumber,
		FilingYear:     q.FilingYear,
		QueryTimestamp: q.QueryTimestamp,
		Status:         q.Status,
	}
}

// GetCase returns a stored case without touching the audit log or the network.
func (s *Service) GetCase(ctx context.Context, caseNumber string) (scraper.FetchResult, error) {
	record, err := s.store.FindByCaseNumber(ctx, caseNumber)
	if err != nil {
		return scraper.FetchResult{}, err
	}
	return FromRecord(record), nil
}

func (s *Service) DeleteCase(ctx context.Context, caseNumber string) error {
	return s.store.Delete(ctx, caseNumber)
}

// Health checks that the store answers.
func (s *Service) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) CacheStats() cache.CacheStats {
	return s.store.CacheStats()
}

// ClearCache drops every cached record. Stored data is untouched.
func (s *Service) ClearCache() {
	s.store.ClearCache()
}

func (s *Service) Courts() []scraper.CourtInfo {
	return s.fetcher.Courts()
}
