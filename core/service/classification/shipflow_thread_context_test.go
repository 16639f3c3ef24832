package classification

import (
	"reflect"
	"testing"
)

func TestExtractThreadContext(t *testing.T) {
	tests := []struct {
		name           string
		subject        string
		wantCanonical  string
		wantIsResponse bool
	}{
		{
			name:           "plain subject passes through",
			subject:        "Booking Confirmation - 123456789",
			wantCanonical:  "Booking Confirmation - 123456789",
			wantIsResponse: false,
		},
		{
			name:           "single reply prefix stripped",
			subject:        "RE: Booking Confirmation - 123456789",
			wantCanonical:  "Booking Confirmation - 123456789",
			wantIsResponse: true,
		},
		{
			name:           "stacked prefixes stripped",
			subject:        "Re: FW: re: Arrival Notice MAEU123456789",
			wantCanonical:  "Arrival Notice MAEU123456789",
			wantIsResponse: true,
		},
		{
			name:           "fwd prefix stripped",
			subject:        "Fwd: SI cutoff reminder",
			wantCanonical:  "SI cutoff reminder",
			wantIsResponse: true,
		},
		{
			name:           "word starting with re is not a prefix",
			subject:        "Release of containers",
			wantCanonical:  "Release of containers",
			wantIsResponse: false,
		},
		{
			name:           "empty subject",
			subject:        "",
			wantCanonical:  "",
			wantIsResponse: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractThreadContext(tt.subject)
			if got.CanonicalSubject != tt.wantCanonical {
				t.Errorf("CanonicalSubject = %q, want %q", got.CanonicalSubject, tt.wantCanonical)
			}
			if got.IsResponse != tt.wantIsResponse {
				t.Errorf("IsResponse = %v, want %v", got.IsResponse, tt.wantIsResponse)
			}
		})
	}
}

func TestExtractThreadContextReferences(t *testing.T) {
	ctx := ExtractThreadContext("RE: Booking 123456789 / MSKU1234567 / MAEU987654321")

	if !reflect.DeepEqual(ctx.BookingNumbers, []string{"123456789"}) {
		t.Errorf("BookingNumbers = %v", ctx.BookingNumbers)
	}
	if !reflect.DeepEqual(ctx.ContainerNumbers, []string{"MSKU1234567"}) {
		t.Errorf("ContainerNumbers = %v", ctx.ContainerNumbers)
	}
	// Container matches satisfy the BL pattern too and must be deduplicated.
	if !reflect.DeepEqual(ctx.BLNumbers, []string{"MAEU987654321"}) {
		t.Errorf("BLNumbers = %v", ctx.BLNumbers)
	}
}
