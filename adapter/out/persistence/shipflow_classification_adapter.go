package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shipflow_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// =============================================================================
// Classification Adapter (published classification records)
// =============================================================================

// ClassificationAdapter implements out.ClassificationRepository.
type ClassificationAdapter struct {
	db *sqlx.DB
}

// NewClassificationAdapter creates a new ClassificationAdapter.
func NewClassificationAdapter(db *sqlx.DB) *ClassificationAdapter {
	return &ClassificationAdapter{db: db}
}

// classificationRow represents the database row.
type classificationRow struct {
	EmailID            uuid.UUID      `db:"email_id"`
	DocumentType       string         `db:"document_type"`
	DocumentSubType    sql.NullString `db:"document_sub_type"`
	DocumentConfidence float64        `db:"document_confidence"`
	Method             string         `db:"method"`
	MatchedMarkers     pq.StringArray `db:"matched_markers"`
	EmailType          string         `db:"email_type"`
	EmailCategory      string         `db:"email_category"`
	EmailConfidence    float64        `db:"email_confidence"`
	SenderCategory     string         `db:"sender_category"`
	Direction          string         `db:"direction"`
	SentimentLabel     string         `db:"sentiment_label"`
	SentimentScore     float64        `db:"sentiment_score"`
	SuggestedState     sql.NullString `db:"suggested_state"`
	ManualReview       bool           `db:"manual_review"`
	NoDocumentEvidence bool           `db:"no_document_evidence"`
	FallbackFired      bool           `db:"fallback_fired"`
	FallbackReason     string         `db:"fallback_reason"`
	ProcessedAt        time.Time      `db:"processed_at"`
}

func (r *classificationRow) toEntity() *domain.ClassificationOutput {
	output := &domain.ClassificationOutput{
		EmailID:            r.EmailID,
		DocumentType:       domain.DocumentType(r.DocumentType),
		DocumentConfidence: r.DocumentConfidence,
		Method:             domain.ClassificationMethod(r.Method),
		MatchedMarkers:     []string(r.MatchedMarkers),
		EmailType:          domain.EmailType(r.EmailType),
		EmailCategory:      domain.EmailCategory(r.EmailCategory),
		EmailConfidence:    r.EmailConfidence,
		SenderCategory:     domain.SenderCategory(r.SenderCategory),
		Direction:          domain.Direction(r.Direction),
		SentimentLabel:     domain.SentimentLabel(r.SentimentLabel),
		SentimentScore:     r.SentimentScore,
		ManualReview:       r.ManualReview,
		NoDocumentEvidence: r.NoDocumentEvidence,
		FallbackFired:      r.FallbackFired,
		FallbackReason:     r.FallbackReason,
		ProcessedAt:        r.ProcessedAt,
	}
	if r.DocumentSubType.Valid {
		sub := domain.DocumentSubType(r.DocumentSubType.String)
		output.DocumentSubType = &sub
	}
	if r.SuggestedState.Valid {
		output.SuggestedState = domain.WorkflowState(r.SuggestedState.String)
	}
	return output
}

// Save stores a classification record, overwriting any previous record for
// the same email.
func (a *ClassificationAdapter) Save(ctx context.Context, output *domain.ClassificationOutput) error {
	query := `
		INSERT INTO email_classifications (
			email_id, document_type, document_sub_type, document_confidence, method, matched_markers,
			email_type, email_category, email_confidence, sender_category, direction,
			sentiment_label, sentiment_score, suggested_state,
			manual_review, no_document_evidence, fallback_fired, fallback_reason, processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (email_id) DO UPDATE
		SET document_type = EXCLUDED.document_type,
		    document_sub_type = EXCLUDED.document_sub_type,
		    document_confidence = EXCLUDED.document_confidence,
		    method = EXCLUDED.method,
		    matched_markers = EXCLUDED.matched_markers,
		    email_type = EXCLUDED.email_type,
		    email_category = EXCLUDED.email_category,
		    email_confidence = EXCLUDED.email_confidence,
		    sender_category = EXCLUDED.sender_category,
		    direction = EXCLUDED.direction,
		    sentiment_label = EXCLUDED.sentiment_label,
		    sentiment_score = EXCLUDED.sentiment_score,
		    suggested_state = EXCLUDED.suggested_state,
		    manual_review = EXCLUDED.manual_review,
		    no_document_evidence = EXCLUDED.no_document_evidence,
		    fallback_fired = EXCLUDED.fallback_fired,
		    fallback_reason = EXCLUDED.fallback_reason,
		    processed_at = EXCLUDED.processed_at`

	var subType sql.NullString
	if output.DocumentSubType != nil {
		subType = sql.NullString{String: string(*output.DocumentSubType), Valid: true}
	}

	_, err := a.db.ExecContext(ctx, query,
		output.EmailID,
		string(output.DocumentType),
		subType,
		output.DocumentConfidence,
		string(output.Method),
		pq.StringArray(output.MatchedMarkers),
		string(output.EmailType),
		string(output.EmailCategory),
		output.EmailConfidence,
		string(output.SenderCategory),
		string(output.Direction),
		string(output.SentimentLabel),
		output.SentimentScore,
		nullState(output.SuggestedState),
		output.ManualReview,
		output.NoDocumentEvidence,
		output.FallbackFired,
		output.FallbackReason,
		output.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}

	return nil
}

// GetByEmailID retrieves the stored classification for an email.
func (a *ClassificationAdapter) GetByEmailID(ctx context.Context, emailID uuid.UUID) (*domain.ClassificationOutput, error) {
	var row classificationRow
	query := `SELECT * FROM email_classifications WHERE email_id = $1`

	if err := a.db.GetContext(ctx, &row, query, emailID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get classification: %w", err)
	}

	return row.toEntity(), nil
}
