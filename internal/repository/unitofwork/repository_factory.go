package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

// RepositoryFactory hands out fresh units of work. Services hold the
// factory, not the database handle, so every operation decides its own
// transaction boundary.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type repositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &repositoryFactory{db: db}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db)
}
