// Package repository holds the GORM implementations of the domain
// repository interfaces. All implementations resolve their connection
// through conn so that an operation wrapped in Manager.InTx sees the
// transaction instead of the base pool.
package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Manager runs a function inside a single database transaction. The
// transaction travels in the context; every repository call made with that
// context joins it. A returned error rolls the whole unit back, which is
// what keeps multi-profile guard checks atomic.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

func (m *Manager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
