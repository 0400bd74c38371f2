package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/cache"
	"github.com/JustJay7/court-case-lookup/internal/database"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

var (
	ErrNotFound        = errors.New("not found")
	ErrOutcomeConflict = errors.New("query already closed with a different status")
	ErrInvalidStatus   = errors.New("status is not terminal")
)

// upsertColumns are overwritten when a case number already exists.
var upsertColumns = []string{
	"court_name", "case_type", "filing_date",
	"parties_plaintiff", "parties_defendant",
	"petitioner_advocate", "respondent_advocate",
	"next_hearing_date", "case_status", "judge_name",
	"updated_at",
}

// Store persists case records, their orders and the query audit log.
type Store struct {
	db    *gorm.DB
	cache cache.Cache
	now   func() time.Time

	// gen counts invalidations. A read only fills the cache when no
	// invalidation happened while it was in flight.
	mu  sync.Mutex
	gen uint64
}

// New returns a Store. records may be nil to disable read-through caching.
func New(db *gorm.DB, records cache.Cache) *Store {
	return &Store{db: db, cache: records, now: time.Now}
}

// FindByCaseNumber returns the record and its orders, or ErrNotFound.
func (s *Store) FindByCaseNumber(ctx context.Context, caseNumber string) (*database.CaseRecord, error) {
	if s.cache != nil {
		if record, ok := s.cache.Get(caseNumber); ok {
			return record, nil
		}
	}

	gen := s.generation()

	var record database.CaseRecord
	err := s.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("case_number = ?", caseNumber).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find case %q: %w", caseNumber, err)
	}

	s.fill(caseNumber, gen, &record)
	return &record, nil
}

// Upsert inserts the record or overwrites the existing one with the same case
// number, keeping its id, and replaces its orders. Record and orders are
// written in one transaction.
func (s *Store) Upsert(ctx context.Context, record database.CaseRecord, orders []database.OrderRecord) (uint, error) {
	if record.CaseNumber == "" {
		return 0, fmt.Errorf("case number is required")
	}

	now := s.now()
	record.ID = 0
	record.Orders = nil
	record.CreatedAt = now
	record.UpdatedAt = now

	var caseID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "case_number"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("failed to upsert case: %w", err)
		}

		// The id reported by an upsert is driver dependent; read it back.
		if err := tx.Model(&database.CaseRecord{}).
			Where("case_number = ?", record.CaseNumber).
			Pluck("id", &caseID).Error; err != nil {
			return fmt.Errorf("failed to resolve case id: %w", err)
		}
		if caseID == 0 {
			return fmt.Errorf("case %q missing after upsert", record.CaseNumber)
		}

		if err := tx.Where("case_id = ?", caseID).Delete(&database.OrderRecord{}).Error; err != nil {
			return fmt.Errorf("failed to remove previous orders: %w", err)
		}

		if len(orders) == 0 {
			return nil
		}

		fresh := make([]database.OrderRecord, len(orders))
		for i, o := range orders {
			o.ID = 0
			o.CaseID = caseID
			o.CreatedAt = now
			fresh[i] = o
		}
		if err := tx.Create(&fresh).Error; err != nil {
			return fmt.Errorf("failed to save orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.invalidate(record.CaseNumber)
	return caseID, nil
}

// Delete removes a case and its orders.
func (s *Store) Delete(ctx context.Context, caseNumber string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record database.CaseRecord
		err := tx.Select("id").Where("case_number = ?", caseNumber).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("case_id = ?", record.ID).Delete(&database.OrderRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
		return tx.Delete(&database.CaseRecord{}, record.ID).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete case %q: %w", caseNumber, err)
	}

	s.invalidate(caseNumber)
	return nil
}

// RecordQuery writes an audit row in the processing state and returns its id.
func (s *Store) RecordQuery(ctx context.Context, courtID, caseType, caseNumber string, filingYear int) (uint, error) {
	query := database.CaseQuery{
		CourtID:        courtID,
		CaseType:       caseType,
		CaseNumber:     caseNumber,
		FilingYear:     filingYear,
		QueryTimestamp: s.now(),
		Status:         database.QueryProcessing,
	}

	if err := s.db.WithContext(ctx).Create(&query).Error; err != nil {
		return 0, fmt.Errorf("failed to record query: %w", err)
	}
	return query.ID, nil
}

// UpdateQueryOutcome closes a processing audit row. Repeating the same
// terminal status is a no-op; a different one returns ErrOutcomeConflict.
func (s *Store) UpdateQueryOutcome(ctx context.Context, queryID uint, status database.QueryStatus, snapshot []byte, errMsg string) error {
	if !status.Terminal() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	updates := map[string]interface{}{"status": status}
	if snapshot != nil {
		updates["response_data"] = datatypes.JSON(snapshot)
	}
	if errMsg != "" {
		updates["error_message"] = errMsg
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&database.CaseQuery{}).
		Where("id = ? AND status IN ?", queryID, []database.QueryStatus{database.QueryPending, database.QueryProcessing}).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update query %d: %w", queryID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var current database.CaseQuery
	err := db.Select("id", "status").First(&current, queryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read query %d: %w", queryID, err)
	}
	if current.Status == status {
		return nil
	}
	return fmt.Errorf("%w: query %d is %s", ErrOutcomeConflict, queryID, current.Status)
}

// GetQuery returns one audit row.
func (s *Store) GetQuery(ctx context.Context, queryID uint) (*database.CaseQuery, error) {
	var query database.CaseQuery
	err := s.db.WithContext(ctx).First(&query, queryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read query %d: %w", queryID, err)
	}
	return &query, nil
}

// ListRecentQueries returns audit rows newest first. A non-positive limit
// means DefaultHistoryLimit; limits above MaxHistoryLimit are capped.
func (s *Store) ListRecentQueries(ctx context.Context, limit int) ([]database.CaseQuery, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	var queries []database.CaseQuery
	err := s.db.WithContext(ctx).
		Omit("response_data").
		Order("query_timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&queries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	return queries, nil
}

// Ping runs a trivial query against the database.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

// CacheStats reports record cache statistics.
func (s *Store) CacheStats() cache.CacheStats {
	if s.cache == nil {
		return cache.CacheStats{}
	}
	return s.cache.Stats()
}

// ClearCache drops every cached record.
func (s *Store) ClearCache() {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.cache.Clear()
}

func (s *Store) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Store) fill(caseNumber string, gen uint64, record *database.CaseRecord) {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.cache.Set(caseNumber, record)
}

func (s *Store) invalidate(caseNumber string) {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.cache.Delete(caseNumber)
}
