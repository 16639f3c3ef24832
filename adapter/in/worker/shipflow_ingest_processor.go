// Package worker hosts the stream-driven job processors.
package worker

import (
	"context"

	"github.com/goccy/go-json"

	"shipflow_server/adapter/out/messaging"
	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"
	"shipflow_server/core/service/ingest"
	"shipflow_server/pkg/apperr"
	"shipflow_server/pkg/logger"

	"github.com/google/uuid"
)

// =============================================================================
// Ingest Processor
// =============================================================================

// IngestProcessor consumes email ingest jobs and runs them through the
// classification and workflow engines.
type IngestProcessor struct {
	ingestService *ingest.Service
	producer      out.MessageProducer // optional, for result events
	log           *logger.Logger
}

// NewIngestProcessor creates a new ingest processor.
func NewIngestProcessor(ingestService *ingest.Service, producer out.MessageProducer, log *logger.Logger) *IngestProcessor {
	if log == nil {
		log = logger.Default()
	}
	return &IngestProcessor{
		ingestService: ingestService,
		producer:      producer,
		log:           log,
	}
}

// Handle implements messaging.JobHandler.
func (p *IngestProcessor) Handle(ctx context.Context, stream string, data []byte) error {
	if stream != messaging.StreamEmailIngest {
		return apperr.InvalidInput("stream", "unexpected stream "+stream)
	}

	var job out.EmailIngestJob
	if err := json.Unmarshal(data, &job); err != nil {
		return apperr.Wrap(err, apperr.CodeInvalidInput, "malformed ingest job payload")
	}
	if job.EmailID == uuid.Nil {
		return apperr.MissingField("email_id")
	}

	result, err := p.ingestService.Process(ctx, &ingest.Request{
		ShipmentID: job.ShipmentID,
		Input: &domain.ClassificationInput{
			EmailID:         job.EmailID,
			Subject:         job.Subject,
			SenderEmail:     job.SenderEmail,
			TrueSenderEmail: job.TrueSenderEmail,
			Body:            job.Body,
			AttachmentNames: job.AttachmentNames,
			IsReply:         job.IsReply,
			ThreadDocTypes:  job.ThreadDocTypes,
		},
	})
	if err != nil {
		return err
	}

	p.publishEvents(ctx, &job, result)
	return nil
}

// publishEvents emits result events. Event delivery is best effort; the
// classification itself is already stored.
func (p *IngestProcessor) publishEvents(ctx context.Context, job *out.EmailIngestJob, result *ingest.Result) {
	if p.producer == nil {
		return
	}

	if err := p.producer.PublishClassification(ctx, result.Classification); err != nil {
		p.log.WithError(err).Warn("failed to publish classification event for email %s", job.EmailID)
	}

	if result.Transition == nil {
		return
	}
	event := &out.TransitionEvent{
		ShipmentID:   job.ShipmentID,
		EmailID:      job.EmailID,
		Transitioned: result.Transition.Transitioned,
		FromState:    result.Transition.FromState,
		ToState:      result.Transition.ToState,
		Reason:       string(result.Transition.Reason),
	}
	if err := p.producer.PublishTransition(ctx, event); err != nil {
		p.log.WithError(err).Warn("failed to publish transition event for shipment %s", job.ShipmentID)
	}
}
