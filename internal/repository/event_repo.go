package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"controlling_aircon/internal/models"
)

const (
	insertEventSQL = `
		INSERT INTO appliance_events (id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`
	selectEventsSQL = `SELECT id, occurred_at, type, message, meta FROM appliance_events`
	orderEventsSQL  = ` ORDER BY occurred_at ASC`
)

// EventSQLite stores the appliance event log. Timestamps are kept as UTC
// time.DateTime strings so range filters compare lexically.
type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts e, assigning an id and timestamp when missing.
func (r *EventSQLite) Append(ctx context.Context, e models.ApplianceEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	at := e.OccurredAt.UTC()
	if e.OccurredAt.IsZero() {
		at = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		at.Format(time.DateTime),
		normalizeEventType(e.Type),
		e.Description,
		encodeMetadata(e.Metadata),
	); err != nil {
		return fmt.Errorf("insert appliance event: %w", err)
	}
	return nil
}

// List returns events with from <= occurred_at <= to, optionally of one
// type, oldest first. Zero bounds and an empty type are not applied.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.ApplianceEvent, error) {
	where, args := eventConditions(from, to, typ)

	rows, err := r.db.QueryContext(ctx, selectEventsSQL+where+orderEventsSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query appliance events: %w", err)
	}
	defer rows.Close()

	var events []models.ApplianceEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appliance events: %w", err)
	}
	if events == nil {
		events = []models.ApplianceEvent{}
	}
	return events, nil
}

func eventConditions(from, to time.Time, typ string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}

	if !from.IsZero() {
		add("occurred_at >= ?", from.UTC().Format(time.DateTime))
	}
	if !to.IsZero() {
		add("occurred_at <= ?", to.UTC().Format(time.DateTime))
	}
	if typ = normalizeEventType(typ); typ != "" {
		add("type = ?", typ)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanEvent(rows *sql.Rows) (models.ApplianceEvent, error) {
	var (
		ev   models.ApplianceEvent
		meta sql.NullString
	)
	if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
		return models.ApplianceEvent{}, fmt.Errorf("scan appliance event: %w", err)
	}
	ev.OccurredAt = ev.OccurredAt.UTC()
	ev.Metadata = decodeMetadata(meta)
	return ev, nil
}

func normalizeEventType(typ string) string {
	return strings.ToUpper(strings.TrimSpace(typ))
}

// encodeMetadata returns nil for absent or unencodable metadata so the
// column stays NULL.
func encodeMetadata(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// decodeMetadata keeps the raw text when the column is not valid JSON.
func decodeMetadata(col sql.NullString) any {
	if !col.Valid || col.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(col.String), &v); err != nil {
		return col.String
	}
	return v
}
