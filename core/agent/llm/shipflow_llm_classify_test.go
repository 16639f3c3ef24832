package llm

import (
	"strings"
	"testing"

	"shipflow_server/core/domain"
)

func TestCoerceDocumentType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.DocumentType
	}{
		{"exact type", "booking_confirmation", domain.DocBookingConfirmation},
		{"uppercase", "ARRIVAL_NOTICE", domain.DocArrivalNotice},
		{"surrounding whitespace", "  bl_draft ", domain.DocBLDraft},
		{"unknown keyword", "unknown", domain.DocUnknown},
		{"free text becomes unknown", "some kind of invoice maybe", domain.DocUnknown},
		{"empty", "", domain.DocUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceDocumentType(tt.raw); got != tt.want {
				t.Errorf("coerceDocumentType(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildDocumentPrompt(t *testing.T) {
	input := &domain.ClassificationInput{
		Subject:         "Booking Confirmation - 250114890",
		SenderEmail:     "forwarder-bot@intoglo.com",
		TrueSenderEmail: "in.export@maersk.com",
		Body:            "Please find attached.",
		AttachmentNames: []string{"bc.pdf", "terms.pdf"},
		AttachmentText:  "BOOKING CONFIRMATION",
	}

	prompt := buildDocumentPrompt(input)

	if !strings.Contains(prompt, "From: in.export@maersk.com") {
		t.Errorf("prompt uses the wrong sender:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Attachments: bc.pdf, terms.pdf") {
		t.Errorf("prompt missing attachment names:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Extracted attachment text:\nBOOKING CONFIRMATION") {
		t.Errorf("prompt missing attachment text:\n%s", prompt)
	}
	if strings.Contains(prompt, "reply or forward") {
		t.Errorf("fresh email flagged as a reply:\n%s", prompt)
	}
	if strings.Contains(prompt, "already seen in this thread") {
		t.Errorf("prompt lists thread documents for an empty thread:\n%s", prompt)
	}
}

func TestBuildDocumentPromptIncludesThreadContext(t *testing.T) {
	input := &domain.ClassificationInput{
		Subject:     "RE: Booking Confirmation - 250114890",
		SenderEmail: "in.export@maersk.com",
		Body:        "Please see the amended version.",
		IsReply:     true,
		ThreadDocTypes: []domain.DocumentType{
			domain.DocBookingConfirmation,
			domain.DocShippingInstructions,
		},
	}

	prompt := buildDocumentPrompt(input)

	if !strings.Contains(prompt, "Thread: this email is a reply or forward") {
		t.Errorf("prompt missing reply flag:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Documents already seen in this thread: booking_confirmation, shipping_instructions") {
		t.Errorf("prompt missing thread document types:\n%s", prompt)
	}
}

func TestBuildDocumentPromptTruncatesBody(t *testing.T) {
	input := &domain.ClassificationInput{
		Subject: "Long thread",
		Body:    strings.Repeat("x", 5000),
	}
	prompt := buildDocumentPrompt(input)
	if strings.Count(prompt, "x") != 2000 {
		t.Errorf("body not truncated to 2000 chars, got %d", strings.Count(prompt, "x"))
	}
	if !strings.Contains(prompt, "...") {
		t.Error("truncated body missing ellipsis")
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Errorf("truncateText(short) = %q", got)
	}
	if got := truncateText("abcdef", 3); got != "abc..." {
		t.Errorf("truncateText = %q, want abc...", got)
	}
}
