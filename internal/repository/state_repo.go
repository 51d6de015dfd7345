package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"controlling_aircon/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	applianceStateRowID = 1

	upsertStateSQL = `
		INSERT INTO appliance_state (id, powered, mode, temperature, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			powered=excluded.powered,
			mode=excluded.mode,
			temperature=excluded.temperature,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT powered, mode, temperature, updated_at
		FROM appliance_state WHERE id=?
	`
)

// Save writes the single appliance_state row.
func (r *StateSQLite) Save(ctx context.Context, s models.ApplianceState) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		applianceStateRowID,
		s.Powered,
		s.Mode,
		s.Temperature,
		ts,
	)
	if err != nil {
		return fmt.Errorf("save appliance state: %w", err)
	}
	return nil
}

// Load returns the stored state; ok is false when nothing was saved yet.
func (r *StateSQLite) Load(ctx context.Context) (models.ApplianceState, bool, error) {
	var s models.ApplianceState
	err := r.db.QueryRowContext(ctx, selectStateSQL, applianceStateRowID).
		Scan(&s.Powered, &s.Mode, &s.Temperature, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ApplianceState{}, false, nil
		}
		return models.ApplianceState{}, false, fmt.Errorf("load appliance state: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, true, nil
}
