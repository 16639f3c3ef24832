// Package out defines outbound ports (driven ports) for the application.
package out

import (
	"context"
	"errors"

	"shipflow_server/core/domain"

	"github.com/google/uuid"
)

// ErrStateConflict is returned by ApplyTransition when the shipment's state
// changed between the read and the write. Callers retry the whole attempt.
var ErrStateConflict = errors.New("shipment state changed since read")

// TransitionWrite is the atomic unit persisted for one transition: the new
// workflow snapshot plus its audit record.
type TransitionWrite struct {
	State  *domain.ShipmentWorkflowState // snapshot with the NEW state applied
	Record *domain.TransitionRecord
	// Status is set when a terminal rule additionally flips the coarse
	// shipment status, empty otherwise.
	Status domain.ShipmentStatus
}

// ShipmentStateStore reads and writes shipment workflow state and its
// transition history.
type ShipmentStateStore interface {
	// GetWorkflowState returns the current snapshot for a shipment.
	GetWorkflowState(ctx context.Context, shipmentID uuid.UUID) (*domain.ShipmentWorkflowState, error)

	// GetTransitionHistory returns a shipment's transition records in the
	// order they were applied.
	GetTransitionHistory(ctx context.Context, shipmentID uuid.UUID) ([]*domain.TransitionRecord, error)

	// ApplyTransition persists the snapshot and appends the record as one
	// atomic unit. The write must fail with ErrStateConflict when the stored
	// version no longer matches expectedVersion.
	ApplyTransition(ctx context.Context, expectedVersion int64, write *TransitionWrite) error
}

// ClassificationRepository stores published classification outputs.
// Reclassification overwrites the record for the email, it never merges.
type ClassificationRepository interface {
	Save(ctx context.Context, output *domain.ClassificationOutput) error
	GetByEmailID(ctx context.Context, emailID uuid.UUID) (*domain.ClassificationOutput, error)
}
