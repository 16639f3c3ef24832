package out

import (
	"context"

	"shipflow_server/core/domain"

	"github.com/google/uuid"
)

// AttachmentRecord is what the attachment text store returns for one email.
type AttachmentRecord struct {
	Filenames     []string
	ExtractedText string // plain text of PDF attachments, empty if not extracted
}

// AttachmentTextStore is a read-only lookup over already-extracted attachment
// text. Extraction itself happens upstream.
type AttachmentTextStore interface {
	GetByEmailID(ctx context.Context, emailID uuid.UUID) (*AttachmentRecord, error)
}

// AIFallbackResult is the validated shape of the AI classifier's answer.
type AIFallbackResult struct {
	DocumentType domain.DocumentType
	Confidence   float64 // 0-100, clamped at the boundary
	Reasoning    string
}

// AIFallbackClassifier is the external model consulted when deterministic
// confidence falls below the manual-review threshold. Any failure is treated
// as "fallback unavailable", never fatal.
type AIFallbackClassifier interface {
	ClassifyDocument(ctx context.Context, input *domain.ClassificationInput) (*AIFallbackResult, error)
}
