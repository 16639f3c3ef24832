package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"
)

// DocumentClassifyResponse is the JSON shape the model is instructed to return.
type DocumentClassifyResponse struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

const documentSystemPrompt = `You are a freight-forwarding document classification AI. Analyze the email and respond with JSON only.

Document types (pick ONE):
- booking_confirmation: Carrier booking confirmation with booking number
- booking_amendment: Change to an existing booking
- booking_cancellation: Cancellation of a booking
- shipping_instructions: Shipping instructions (SI) for BL preparation
- si_confirmation: Carrier acknowledgment of submitted SI
- bl_draft: Draft bill of lading for review
- bl_released: Final or released bill of lading (HBL/MBL, telex release)
- vgm_declaration: Verified gross mass declaration
- commercial_invoice: Commercial invoice for the goods
- packing_list: Packing list
- certificate_of_origin: Certificate of origin
- freight_invoice: Invoice for freight charges
- customs_checklist: Customs checklist for verification
- shipping_bill: Export shipping bill
- bill_of_entry: Import bill of entry
- customs_clearance: Customs clearance or out of charge confirmation
- arrival_notice: Cargo arrival notice at destination
- delivery_order: Delivery order for cargo release
- container_pickup: Empty container pickup confirmation
- gate_in_confirmation: Container gate-in confirmation at terminal
- proof_of_delivery: Proof of delivery
- unknown: No freight document identifiable

Confidence: 0 to 100.
- 80-100: Explicit document markers present
- 50-79: Strong contextual evidence
- 0-49: Weak or circumstantial evidence

Respond with this exact JSON format:
{
  "document_type": "type_name",
  "confidence": 0-100,
  "reasoning": "brief 1-2 sentence explanation"
}`

// DocumentClassifier adapts the OpenAI client to the classification
// engine's fallback port.
type DocumentClassifier struct {
	client *Client
}

func NewDocumentClassifier(client *Client) *DocumentClassifier {
	return &DocumentClassifier{client: client}
}

// ClassifyDocument asks the model for a document type when the
// deterministic classifiers could not produce a confident answer.
func (d *DocumentClassifier) ClassifyDocument(ctx context.Context, input *domain.ClassificationInput) (*out.AIFallbackResult, error) {
	userPrompt := buildDocumentPrompt(input)

	resp, err := d.client.CompleteJSON(ctx, documentSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var result DocumentClassifyResponse
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		return nil, fmt.Errorf("failed to parse document classification response: %w", err)
	}

	return &out.AIFallbackResult{
		DocumentType: coerceDocumentType(result.DocumentType),
		Confidence:   domain.ClampConfidence(result.Confidence),
		Reasoning:    result.Reasoning,
	}, nil
}

func buildDocumentPrompt(input *domain.ClassificationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\nSubject: %s\n", input.EffectiveSender(), input.Subject)
	if input.IsReply {
		b.WriteString("Thread: this email is a reply or forward\n")
	}
	if len(input.ThreadDocTypes) > 0 {
		types := make([]string, len(input.ThreadDocTypes))
		for i, dt := range input.ThreadDocTypes {
			types[i] = string(dt)
		}
		fmt.Fprintf(&b, "Documents already seen in this thread: %s\n", strings.Join(types, ", "))
	}
	if len(input.AttachmentNames) > 0 {
		fmt.Fprintf(&b, "Attachments: %s\n", strings.Join(input.AttachmentNames, ", "))
	}
	fmt.Fprintf(&b, "\nBody:\n%s", truncateText(input.Body, 2000))
	if input.AttachmentText != "" {
		fmt.Fprintf(&b, "\n\nExtracted attachment text:\n%s", truncateText(input.AttachmentText, 2000))
	}
	return b.String()
}

// coerceDocumentType maps the model's answer onto a known type. Anything
// unrecognized becomes unknown rather than leaking free text downstream.
func coerceDocumentType(raw string) domain.DocumentType {
	normalized := domain.DocumentType(strings.ToLower(strings.TrimSpace(raw)))
	if normalized.IsValid() {
		return normalized
	}
	return domain.DocUnknown
}

func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
