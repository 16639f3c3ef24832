package classification

import (
	"testing"

	"shipflow_server/core/domain"
)

func TestIntentClassifier(t *testing.T) {
	classifier := NewIntentClassifier()

	tests := []struct {
		name           string
		subject        string
		body           string
		wantType       domain.EmailType
		wantCategory   domain.EmailCategory
		wantConfidence float64
		wantMarker     string
	}{
		{
			name:           "approval in subject",
			subject:        "Draft BL approved",
			body:           "Looks fine.",
			wantType:       domain.EmailTypeApproval,
			wantCategory:   domain.EmailCategoryDocument,
			wantConfidence: 82,
			wantMarker:     "intent:approval",
		},
		{
			name:           "approval in body scores lower",
			subject:        "Draft BL 250114890",
			body:           "Checked the draft, please proceed with filing.",
			wantType:       domain.EmailTypeApproval,
			wantCategory:   domain.EmailCategoryDocument,
			wantConfidence: 74,
			wantMarker:     "intent:approval",
		},
		{
			name:           "booking request",
			subject:        "New booking for Nhava Sheva to Rotterdam",
			body:           "Please quote and confirm.",
			wantType:       domain.EmailTypeBookingRequest,
			wantCategory:   domain.EmailCategoryOperations,
			wantConfidence: 78,
			wantMarker:     "intent:booking-request",
		},
		{
			name:           "rejection beats status words",
			subject:        "Booking cancelled - status update",
			body:           "Please cancel the booking.",
			wantType:       domain.EmailTypeRejection,
			wantCategory:   domain.EmailCategoryDocument,
			wantConfidence: 78,
			wantMarker:     "intent:rejection",
		},
		{
			name:           "status update",
			subject:        "Vessel departed from Mundra",
			body:           "MSC ANNA sailed on schedule.",
			wantType:       domain.EmailTypeStatusUpdate,
			wantCategory:   domain.EmailCategoryOperations,
			wantConfidence: 68,
			wantMarker:     "intent:status-update",
		},
		{
			name:           "escalation",
			subject:        "URGENT: containers stuck at port",
			body:           "This is the third follow-up.",
			wantType:       domain.EmailTypeEscalation,
			wantCategory:   domain.EmailCategoryOperations,
			wantConfidence: 74,
			wantMarker:     "intent:escalation",
		},
		{
			name:           "unmatched falls back to general",
			subject:        "Meeting notes",
			body:           "See you tomorrow.",
			wantType:       domain.EmailTypeGeneral,
			wantCategory:   domain.EmailCategoryGeneral,
			wantConfidence: 30,
			wantMarker:     "intent:default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &domain.ClassificationInput{Subject: tt.subject, Body: tt.body}
			got := classifier.Classify(input, ExtractThreadContext(tt.subject))
			if got.EmailType != tt.wantType {
				t.Errorf("EmailType = %v, want %v", got.EmailType, tt.wantType)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %v, want %v", got.Category, tt.wantCategory)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if len(got.Markers) == 0 || got.Markers[0] != tt.wantMarker {
				t.Errorf("Markers = %v, want first %q", got.Markers, tt.wantMarker)
			}
		})
	}
}

func TestScoreSentiment(t *testing.T) {
	tests := []struct {
		name      string
		subject   string
		body      string
		wantLabel domain.SentimentLabel
	}{
		{
			name:      "thankful shipper",
			subject:   "Re: Delivery completed",
			body:      "Thank you for the great support, much appreciated.",
			wantLabel: domain.SentimentPositive,
		},
		{
			name:      "escalating shipper",
			subject:   "URGENT: still waiting on BL",
			body:      "This delay is unacceptable, we will face detention charges.",
			wantLabel: domain.SentimentNegative,
		},
		{
			name:      "plain operational mail",
			subject:   "SI for booking 250114890",
			body:      "Please find the shipping instructions attached.",
			wantLabel: domain.SentimentNeutral,
		},
		{
			name:      "mixed tone nets out negative",
			subject:   "Thanks, but shipment delayed again",
			body:      "Appreciate the update, however the delay is a problem.",
			wantLabel: domain.SentimentNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, score := ScoreSentiment(tt.subject, tt.body)
			if label != tt.wantLabel {
				t.Errorf("label = %v (score %v), want %v", label, score, tt.wantLabel)
			}
			if score < -1 || score > 1 {
				t.Errorf("score %v out of [-1, 1]", score)
			}
		})
	}
}
