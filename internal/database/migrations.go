package database

import (
	"fmt"

	"gorm.io/gorm"
)

// createIndexes adds the secondary indexes AutoMigrate does not derive from tags.
func createIndexes(db *gorm.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{
			// history listing
			name: "idx_case_queries_time",
			sql: `CREATE INDEX IF NOT EXISTS idx_case_queries_time
				ON case_queries(query_timestamp)`,
		},
		{
			name: "idx_case_queries_case_number",
			sql: `CREATE INDEX IF NOT EXISTS idx_case_queries_case_number
				ON case_queries(case_number)`,
		},
		{
			// also covers lookups by case_id
			name: "idx_case_orders_date",
			sql: `CREATE INDEX IF NOT EXISTS idx_case_orders_date
				ON case_orders(case_id, order_date)`,
		},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", stmt.name, err)
		}
	}

	return nil
}
