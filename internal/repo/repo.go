package repo

import (
	"context"

	"gorm.io/gorm"
)

// GormRepo is the persistence gateway. Every query is parameterized through
// GORM; multi-statement sequences run inside Transaction.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// Transaction runs fn against a transactional copy of the repo, committing on
// nil and rolling back on error.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}
