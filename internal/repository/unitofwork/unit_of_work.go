package unitofwork

import (
	"context"

	"ambubot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ReferencePassageRepository() contract.ReferencePassageRepository
}
