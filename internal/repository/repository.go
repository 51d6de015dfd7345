package repository

import (
	"context"
	"database/sql"
	"time"

	"controlling_aircon/internal/models"
)

type Operators interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
	UpdatePasswordHash(id int, hash string) error
}

type StateRepo interface {
	Save(ctx context.Context, s models.ApplianceState) error
	Load(ctx context.Context) (models.ApplianceState, bool, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ApplianceEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ApplianceEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Operators Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Operators: NewOperatorRepository(db),
	}
}
