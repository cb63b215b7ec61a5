package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Conn returns the transaction when set, otherwise db bound to ctx.
func Conn(ctx context.Context, tx, db *gorm.DB) *gorm.DB {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
