// Package repository is the persistence boundary for posts and comments.
//
// Every exported method runs in exactly one unit of work: a transaction on the
// injected handle that is committed when the method succeeds, rolled back when
// it fails or panics, and released before the method returns. A missing row is
// reported through a boolean, never as an error.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// unitOfWork runs fn inside a single transaction bound to ctx.
func unitOfWork(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// byID orders preloaded or listed rows by insertion order.
func byID(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}})
}
