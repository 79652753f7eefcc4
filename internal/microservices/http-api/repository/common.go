package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate locks the selected row until the surrounding transaction ends.
// SQLite has no row locks and its dialect drops the clause.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// incrementExpr and decrementExpr are single-statement counter updates; the
// decrement never goes below zero.
func incrementExpr(column string) clause.Expr {
	return gorm.Expr(column + " + 1")
}

func decrementExpr(column string) clause.Expr {
	return gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
}

// likePattern builds a case-insensitive substring pattern for `LOWER(col) LIKE ? ESCAPE '\'`
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(search)) + "%"
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// ToggleResult is the membership state and counter after a like toggle
type ToggleResult struct {
	Liked      bool
	LikesCount int
}
