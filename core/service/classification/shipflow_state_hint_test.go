package classification

import (
	"testing"

	"shipflow_server/core/domain"
)

func TestSuggestWorkflowState(t *testing.T) {
	tests := []struct {
		name      string
		docType   domain.DocumentType
		emailType domain.EmailType
		direction domain.Direction
		want      domain.WorkflowState
	}{
		{
			name:      "inbound booking confirmation",
			docType:   domain.DocBookingConfirmation,
			direction: domain.DirectionInbound,
			want:      domain.StateBookingConfirmationReceived,
		},
		{
			name:      "outbound booking confirmation",
			docType:   domain.DocBookingConfirmation,
			direction: domain.DirectionOutbound,
			want:      domain.StateBookingConfirmationShared,
		},
		{
			name:      "inbound SI",
			docType:   domain.DocShippingInstructions,
			direction: domain.DirectionInbound,
			want:      domain.StateSIReceived,
		},
		{
			name:      "inbound proof of delivery",
			docType:   domain.DocProofOfDelivery,
			direction: domain.DirectionInbound,
			want:      domain.StateDelivered,
		},
		{
			name:      "booking request email without a document",
			docType:   domain.DocUnknown,
			emailType: domain.EmailTypeBookingRequest,
			direction: domain.DirectionInbound,
			want:      domain.StateBookingRequested,
		},
		{
			name:      "outbound booking request gives no hint",
			docType:   domain.DocUnknown,
			emailType: domain.EmailTypeBookingRequest,
			direction: domain.DirectionOutbound,
			want:      "",
		},
		{
			name:      "no evidence no hint",
			docType:   domain.DocUnknown,
			emailType: domain.EmailTypeGeneral,
			direction: domain.DirectionInbound,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestWorkflowState(tt.docType, tt.emailType, tt.direction); got != tt.want {
				t.Errorf("SuggestWorkflowState = %q, want %q", got, tt.want)
			}
		})
	}
}
