// Package ingest wires the classification engine to the workflow engine:
// one classified email in, one stored classification and at most one
// shipment transition out.
package ingest

import (
	"context"

	"github.com/google/uuid"

	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"
	"shipflow_server/core/service/classification"
	"shipflow_server/core/service/workflow"
	"shipflow_server/pkg/apperr"
	"shipflow_server/pkg/locks"
	"shipflow_server/pkg/logger"
)

// Request carries one email through the engine. ShipmentID may be the zero
// UUID when the email is not linked to a shipment yet; classification still
// runs and is stored, only the transition step is skipped.
type Request struct {
	ShipmentID uuid.UUID
	Input      *domain.ClassificationInput

	// Force bypasses the workflow's forward-only check. Used for operator
	// corrections, never by automated ingest.
	Force bool
}

// Result is the combined outcome of one ingest.
type Result struct {
	Classification *domain.ClassificationOutput
	Transition     *domain.TransitionResult // nil when no shipment was linked
}

// Service is the ingest orchestrator.
type Service struct {
	pipeline        *classification.Pipeline
	engine          *workflow.Engine
	classifications out.ClassificationRepository
	attachments     out.AttachmentTextStore // optional
	shipmentLocks   *locks.KeyedMutex
	log             *logger.Logger
}

// NewService creates the ingest service. attachments may be nil when no
// attachment text extraction backend is configured.
func NewService(
	pipeline *classification.Pipeline,
	engine *workflow.Engine,
	classifications out.ClassificationRepository,
	attachments out.AttachmentTextStore,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		pipeline:        pipeline,
		engine:          engine,
		classifications: classifications,
		attachments:     attachments,
		shipmentLocks:   locks.NewKeyedMutex(0),
		log:             log,
	}
}

// Process classifies one email, stores the result, and attempts a workflow
// transition for the linked shipment. Reprocessing the same email overwrites
// its stored classification.
func (s *Service) Process(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Input == nil {
		return nil, apperr.MissingField("input")
	}

	s.enrichAttachmentText(ctx, req.Input)

	output := s.pipeline.Classify(ctx, req.Input)

	if err := s.classifications.Save(ctx, output); err != nil {
		return nil, apperr.DatabaseError("store classification", err).
			WithDetail("email_id", req.Input.EmailID.String())
	}

	result := &Result{Classification: output}
	if req.ShipmentID == uuid.Nil {
		return result, nil
	}

	// Per-shipment serialization keeps concurrent emails for the same
	// shipment from burning version-conflict retries against each other.
	err := s.shipmentLocks.WithLock(req.ShipmentID.String(), func() error {
		transition, err := s.engine.AttemptTransition(ctx, &workflow.TransitionInput{
			ShipmentID:     req.ShipmentID,
			Subject:        req.Input.Subject,
			Classification: output,
			Force:          req.Force,
		})
		if err != nil {
			return err
		}
		result.Transition = transition
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Transition != nil && !result.Transition.Transitioned {
		s.log.WithFields(map[string]any{
			"shipment_id": req.ShipmentID.String(),
			"email_id":    req.Input.EmailID.String(),
			"reason":      string(result.Transition.Reason),
		}).Debug("no workflow transition")
	}

	return result, nil
}

// enrichAttachmentText fills in extracted attachment text from the backing
// store when the caller did not supply it. Extraction backends are best
// effort; a miss just leaves content-level evidence out of the run.
func (s *Service) enrichAttachmentText(ctx context.Context, input *domain.ClassificationInput) {
	if s.attachments == nil || input.AttachmentText != "" || !input.HasAttachments() {
		return
	}
	record, err := s.attachments.GetByEmailID(ctx, input.EmailID)
	if err != nil {
		s.log.WithError(err).Debug("attachment text lookup failed for email %s", input.EmailID)
		return
	}
	if record != nil {
		input.AttachmentText = record.ExtractedText
		if len(input.AttachmentNames) == 0 {
			input.AttachmentNames = record.Filenames
		}
	}
}
