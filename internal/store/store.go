// Package store contains all database queries. Every function takes a
// context and a *sql.DB; user data queries are always scoped to one user.
package store

import "time"

// SQLite stores dates and datetimes as text. Binding parameters through
// these layouts keeps comparisons in the same format the defaults
// (CURRENT_TIMESTAMP) write, so range predicates compare correctly.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

func fmtDate(t time.Time) string {
	return t.Format(dateLayout)
}

func fmtDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// nullDate converts an optional date to a bind parameter.
func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtDate(*t)
}
