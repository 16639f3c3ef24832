package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"

	"shipflow_server/core/port/out"
)

// =============================================================================
// MongoDB Attachment Text Adapter
// =============================================================================

const collectionAttachmentTexts = "attachment_texts"

// AttachmentTextAdapter implements out.AttachmentTextStore using MongoDB.
// The upstream extraction worker writes one document per email; this adapter
// only reads and (for the extraction side) upserts.
type AttachmentTextAdapter struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewAttachmentTextAdapter creates a new MongoDB attachment text adapter.
func NewAttachmentTextAdapter(db *mongo.Database) *AttachmentTextAdapter {
	return &AttachmentTextAdapter{
		db:         db,
		collection: db.Collection(collectionAttachmentTexts),
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *AttachmentTextAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "extracted_at", Value: 1}},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// attachmentTextDocument represents the MongoDB document structure.
type attachmentTextDocument struct {
	EmailID       string    `bson:"email_id"`
	Filenames     []string  `bson:"filenames"`
	ExtractedText string    `bson:"extracted_text"`
	ExtractedAt   time.Time `bson:"extracted_at"`
}

// GetByEmailID returns the extracted attachment text for an email, or nil
// when extraction has not run for it.
func (a *AttachmentTextAdapter) GetByEmailID(ctx context.Context, emailID uuid.UUID) (*out.AttachmentRecord, error) {
	var doc attachmentTextDocument
	err := a.collection.FindOne(ctx, bson.M{"email_id": emailID.String()}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attachment text: %w", err)
	}

	return &out.AttachmentRecord{
		Filenames:     doc.Filenames,
		ExtractedText: doc.ExtractedText,
	}, nil
}

// Save upserts the extracted text for an email.
func (a *AttachmentTextAdapter) Save(ctx context.Context, emailID uuid.UUID, filenames []string, extractedText string) error {
	doc := attachmentTextDocument{
		EmailID:       emailID.String(),
		Filenames:     filenames,
		ExtractedText: extractedText,
		ExtractedAt:   time.Now().UTC(),
	}

	_, err := a.collection.ReplaceOne(ctx,
		bson.M{"email_id": doc.EmailID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save attachment text: %w", err)
	}

	return nil
}
