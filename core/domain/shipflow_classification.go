package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmailType is the communicative intent of a message, independent of any
// attached document.
type EmailType string

const (
	EmailTypeApproval        EmailType = "approval"
	EmailTypeRejection       EmailType = "rejection"
	EmailTypeStatusUpdate    EmailType = "status_update"
	EmailTypeDocumentRequest EmailType = "document_request"
	EmailTypeBookingRequest  EmailType = "booking_request"
	EmailTypeAcknowledgment  EmailType = "acknowledgment"
	EmailTypeEscalation      EmailType = "escalation"
	EmailTypeGeneral         EmailType = "general"
)

// EmailCategory groups emails by the part of the shipment lifecycle they touch.
type EmailCategory string

const (
	EmailCategoryDocument   EmailCategory = "document"
	EmailCategoryOperations EmailCategory = "operations"
	EmailCategoryCustoms    EmailCategory = "customs"
	EmailCategoryFinance    EmailCategory = "finance"
	EmailCategoryGeneral    EmailCategory = "general"
)

// SentimentLabel is a coarse tone marker for prioritization downstream.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// ClassificationInput is the immutable snapshot of one email handed to the
// classification engine. Constructed once per email.
type ClassificationInput struct {
	EmailID         uuid.UUID
	Subject         string
	SenderEmail     string
	TrueSenderEmail string // set when the visible sender is a relay/alias
	Body            string
	AttachmentNames []string
	AttachmentText  string // extracted PDF text, empty if not yet extracted
	IsReply         bool   // reply or forward
	ThreadDocTypes  []DocumentType
}

// EffectiveSender prefers the true sender over the relay address.
func (in *ClassificationInput) EffectiveSender() string {
	if in.TrueSenderEmail != "" {
		return in.TrueSenderEmail
	}
	return in.SenderEmail
}

// HasAttachments reports whether the email carried any attachment.
func (in *ClassificationInput) HasAttachments() bool {
	return len(in.AttachmentNames) > 0
}

// ClassificationOutput is the published classification record for one email.
// Reclassification overwrites the whole record, it is never merged.
type ClassificationOutput struct {
	EmailID uuid.UUID `json:"email_id"`

	// Document classification
	DocumentType       DocumentType         `json:"document_type"`
	DocumentSubType    *DocumentSubType     `json:"document_sub_type,omitempty"`
	DocumentConfidence float64              `json:"document_confidence"` // 0-100
	Method             ClassificationMethod `json:"method"`
	MatchedMarkers     []string             `json:"matched_markers,omitempty"`

	// Email intent classification
	EmailType       EmailType     `json:"email_type"`
	EmailCategory   EmailCategory `json:"email_category"`
	EmailConfidence float64       `json:"email_confidence"` // 0-100

	// Sender attribution
	SenderCategory SenderCategory `json:"sender_category"`
	Direction      Direction      `json:"direction"`

	// Tone
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	SentimentScore float64        `json:"sentiment_score"` // -1.0 .. 1.0

	// Workflow hint
	SuggestedState WorkflowState `json:"suggested_state,omitempty"`

	// Review / fallback audit
	ManualReview       bool   `json:"manual_review"`
	NoDocumentEvidence bool   `json:"no_document_evidence"`
	FallbackFired      bool   `json:"fallback_fired"`
	FallbackReason     string `json:"fallback_reason,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// ClampConfidence forces a confidence value into the [0,100] contract.
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
