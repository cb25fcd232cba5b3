package database

import (
	"time"

	"innovalley/internal/observability"

	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start"

// registerQueryMetrics times every statement GORM runs and records it in
// the query latency histogram.
func registerQueryMetrics(db *gorm.DB) {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			observability.ObserveQuery(operation, table, start)
		}
	}

	cb := db.Callback()
	_ = cb.Create().Before("gorm:create").Register("metrics:before_create", before)
	_ = cb.Create().After("gorm:create").Register("metrics:after_create", after("create"))
	_ = cb.Query().Before("gorm:query").Register("metrics:before_query", before)
	_ = cb.Query().After("gorm:query").Register("metrics:after_query", after("query"))
	_ = cb.Delete().Before("gorm:delete").Register("metrics:before_delete", before)
	_ = cb.Delete().After("gorm:delete").Register("metrics:after_delete", after("delete"))
	_ = cb.Row().Before("gorm:row").Register("metrics:before_row", before)
	_ = cb.Row().After("gorm:row").Register("metrics:after_row", after("row"))
}
