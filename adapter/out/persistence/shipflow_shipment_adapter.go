// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// =============================================================================
// Shipment State Adapter (versioned workflow snapshots + audit trail)
// =============================================================================

// ShipmentStateAdapter implements out.ShipmentStateStore.
type ShipmentStateAdapter struct {
	db *sqlx.DB
}

// NewShipmentStateAdapter creates a new ShipmentStateAdapter.
func NewShipmentStateAdapter(db *sqlx.DB) *ShipmentStateAdapter {
	return &ShipmentStateAdapter{db: db}
}

// shipmentStateRow represents the database row.
type shipmentStateRow struct {
	ShipmentID       uuid.UUID      `db:"shipment_id"`
	CurrentState     sql.NullString `db:"current_state"`
	CurrentPhase     sql.NullString `db:"current_phase"`
	OriginState      sql.NullString `db:"origin_state"`
	DestinationState sql.NullString `db:"destination_state"`
	Status           string         `db:"status"`
	Version          int64          `db:"version"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r *shipmentStateRow) toEntity() *domain.ShipmentWorkflowState {
	state := &domain.ShipmentWorkflowState{
		ShipmentID: r.ShipmentID,
		Status:     domain.ShipmentStatus(r.Status),
		Version:    r.Version,
	}
	if r.CurrentState.Valid {
		state.CurrentState = domain.WorkflowState(r.CurrentState.String)
	}
	if r.CurrentPhase.Valid {
		state.CurrentPhase = domain.WorkflowPhase(r.CurrentPhase.String)
	}
	if r.OriginState.Valid {
		origin := domain.WorkflowState(r.OriginState.String)
		state.OriginState = &origin
	}
	if r.DestinationState.Valid {
		destination := domain.WorkflowState(r.DestinationState.String)
		state.DestinationState = &destination
	}
	return state
}

// transitionRow represents one audit record row.
type transitionRow struct {
	ID             int64          `db:"id"`
	ShipmentID     uuid.UUID      `db:"shipment_id"`
	FromState      sql.NullString `db:"from_state"`
	ToState        string         `db:"to_state"`
	DocumentType   sql.NullString `db:"document_type"`
	EmailType      sql.NullString `db:"email_type"`
	SenderCategory string         `db:"sender_category"`
	TriggerKind    string         `db:"trigger_kind"`
	Direction      string         `db:"direction"`
	Parallel       bool           `db:"parallel"`
	Track          sql.NullString `db:"track"`
	Notes          string         `db:"notes"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r *transitionRow) toEntity() *domain.TransitionRecord {
	record := &domain.TransitionRecord{
		ID:             r.ID,
		ShipmentID:     r.ShipmentID,
		ToState:        domain.WorkflowState(r.ToState),
		SenderCategory: domain.SenderCategory(r.SenderCategory),
		TriggerKind:    domain.TriggerKind(r.TriggerKind),
		Direction:      domain.Direction(r.Direction),
		Parallel:       r.Parallel,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
	if r.Track.Valid {
		record.Track = domain.ParallelTrack(r.Track.String)
	}
	if r.FromState.Valid {
		from := domain.WorkflowState(r.FromState.String)
		record.FromState = &from
	}
	if r.DocumentType.Valid {
		dt := domain.DocumentType(r.DocumentType.String)
		record.DocumentType = &dt
	}
	if r.EmailType.Valid {
		et := domain.EmailType(r.EmailType.String)
		record.EmailType = &et
	}
	return record
}

// GetWorkflowState retrieves the current snapshot for a shipment. Returns
// nil when the shipment has no workflow row yet.
func (a *ShipmentStateAdapter) GetWorkflowState(ctx context.Context, shipmentID uuid.UUID) (*domain.ShipmentWorkflowState, error) {
	var row shipmentStateRow
	query := `SELECT * FROM shipment_workflow_state WHERE shipment_id = $1`

	if err := a.db.GetContext(ctx, &row, query, shipmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workflow state: %w", err)
	}

	return row.toEntity(), nil
}

// GetTransitionHistory retrieves a shipment's transitions in applied order.
func (a *ShipmentStateAdapter) GetTransitionHistory(ctx context.Context, shipmentID uuid.UUID) ([]*domain.TransitionRecord, error) {
	var rows []transitionRow
	query := `SELECT * FROM shipment_transitions WHERE shipment_id = $1 ORDER BY id`

	if err := a.db.SelectContext(ctx, &rows, query, shipmentID); err != nil {
		return nil, fmt.Errorf("failed to get transition history: %w", err)
	}

	records := make([]*domain.TransitionRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].toEntity()
	}

	return records, nil
}

// ApplyTransition persists the snapshot and appends the audit record in one
// transaction. The snapshot upsert only lands when the stored version still
// matches expectedVersion; zero rows affected means a concurrent writer won.
func (a *ShipmentStateAdapter) ApplyTransition(ctx context.Context, expectedVersion int64, write *out.TransitionWrite) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	state := write.State
	query := `
		INSERT INTO shipment_workflow_state (shipment_id, current_state, current_phase, origin_state, destination_state, status, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (shipment_id) DO UPDATE
		SET current_state = EXCLUDED.current_state,
		    current_phase = EXCLUDED.current_phase,
		    origin_state = EXCLUDED.origin_state,
		    destination_state = EXCLUDED.destination_state,
		    status = EXCLUDED.status,
		    version = EXCLUDED.version,
		    updated_at = NOW()
		WHERE shipment_workflow_state.version = $8`

	result, err := tx.ExecContext(ctx, query,
		state.ShipmentID,
		nullState(state.CurrentState),
		nullString(string(state.CurrentPhase)),
		nullStatePtr(state.OriginState),
		nullStatePtr(state.DestinationState),
		string(state.Status),
		state.Version,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert workflow state: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return out.ErrStateConflict
	}

	record := write.Record
	recordQuery := `
		INSERT INTO shipment_transitions (shipment_id, from_state, to_state, document_type, email_type, sender_category, trigger_kind, direction, parallel, track, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err = tx.QueryRowContext(ctx, recordQuery,
		record.ShipmentID,
		nullStatePtr(record.FromState),
		string(record.ToState),
		nullDocTypePtr(record.DocumentType),
		nullEmailTypePtr(record.EmailType),
		string(record.SenderCategory),
		string(record.TriggerKind),
		string(record.Direction),
		record.Parallel,
		nullString(string(record.Track)),
		record.Notes,
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to insert transition record: %w", err)
	}

	// Terminal transitions flip the coarse shipment status in the same
	// transaction as the workflow write.
	if write.Status != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE shipments SET status = $1, updated_at = NOW() WHERE id = $2`,
			string(write.Status), record.ShipmentID,
		)
		if err != nil {
			return fmt.Errorf("failed to update shipment status: %w", err)
		}
	}

	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullState(s domain.WorkflowState) sql.NullString {
	return nullString(string(s))
}

func nullStatePtr(s *domain.WorkflowState) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return nullString(string(*s))
}

func nullDocTypePtr(d *domain.DocumentType) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return nullString(string(*d))
}

func nullEmailTypePtr(e *domain.EmailType) sql.NullString {
	if e == nil {
		return sql.NullString{}
	}
	return nullString(string(*e))
}
