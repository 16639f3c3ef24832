package out

import (
	"context"

	"shipflow_server/core/domain"

	"github.com/google/uuid"
)

// EmailIngestJob is one email queued for classification. Produced by the
// mail sync side, consumed by the ingest worker.
type EmailIngestJob struct {
	EmailID         uuid.UUID             `json:"email_id"`
	ShipmentID      uuid.UUID             `json:"shipment_id,omitempty"`
	Subject         string                `json:"subject"`
	SenderEmail     string                `json:"sender_email"`
	TrueSenderEmail string                `json:"true_sender_email,omitempty"`
	Body            string                `json:"body"`
	AttachmentNames []string              `json:"attachment_names,omitempty"`
	IsReply         bool                  `json:"is_reply"`
	ThreadDocTypes  []domain.DocumentType `json:"thread_doc_types,omitempty"`
}

// TransitionEvent is published after a shipment transition attempt.
type TransitionEvent struct {
	ShipmentID   uuid.UUID            `json:"shipment_id"`
	EmailID      uuid.UUID            `json:"email_id"`
	Transitioned bool                 `json:"transitioned"`
	FromState    domain.WorkflowState `json:"from_state,omitempty"`
	ToState      domain.WorkflowState `json:"to_state,omitempty"`
	Reason       string               `json:"reason,omitempty"`
}

// MessageProducer publishes ingest jobs and result events.
type MessageProducer interface {
	PublishEmailIngest(ctx context.Context, job *EmailIngestJob) error
	PublishClassification(ctx context.Context, output *domain.ClassificationOutput) error
	PublishTransition(ctx context.Context, event *TransitionEvent) error
}
