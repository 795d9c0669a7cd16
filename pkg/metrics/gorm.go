package metrics

import (
	"time"

	"gorm.io/gorm"
)

const startKey = "shopdesk:metrics_start"

// GormPlugin times every gorm operation into DBQueryDuration.
type GormPlugin struct{}

func (GormPlugin) Name() string { return "shopdesk:metrics" }

func (GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("metrics:before_create", begin),
		cb.Create().After("gorm:create").Register("metrics:after_create", finish("insert")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", begin),
		cb.Query().After("gorm:query").Register("metrics:after_query", finish("select")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", begin),
		cb.Update().After("gorm:update").Register("metrics:after_update", finish("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", begin),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", finish("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", begin),
		cb.Row().After("gorm:row").Register("metrics:after_row", finish("select")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", begin),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", finish("raw")),
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func begin(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func finish(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		DBQueryDuration.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	}
}
