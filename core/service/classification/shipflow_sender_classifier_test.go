package classification

import (
	"testing"

	"shipflow_server/core/domain"
)

func TestSenderClassifierCategorize(t *testing.T) {
	classifier := NewSenderClassifier(nil)

	tests := []struct {
		name    string
		address string
		want    domain.SenderCategory
	}{
		{"carrier domain", "in.export@maersk.com", domain.SenderCarrier},
		{"carrier subdomain", "notifications@mail.maersk.com", domain.SenderCarrier},
		{"forwarder domain", "rahul@intoglo.com", domain.SenderIntoglo},
		{"forwarder subdomain", "ops@mail.intoglo.com", domain.SenderIntoglo},
		{"cha domain", "docs@jeenaclearance.com", domain.SenderCHA},
		{"trucker domain", "bookings@safexpress.com", domain.SenderTrucker},
		{"cha local-part hint on unknown domain", "customs.desk@acme.in", domain.SenderCHA},
		{"trucker local-part hint on unknown domain", "dispatch@roadstar.in", domain.SenderTrucker},
		{"display name form", "Maersk Line <noreply@maersk.com>", domain.SenderCarrier},
		{"unknown", "somebody@example.com", domain.SenderUnknown},
		{"malformed address", "not-an-email", domain.SenderUnknown},
		{"empty address", "", domain.SenderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Categorize(tt.address); got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestSenderClassifierResolveDirection(t *testing.T) {
	classifier := NewSenderClassifier(nil)

	tests := []struct {
		name          string
		sender        string
		trueSender    string
		wantCategory  domain.SenderCategory
		wantDirection domain.Direction
	}{
		{
			name:          "forwarder staff is outbound",
			sender:        "rahul@intoglo.com",
			wantCategory:  domain.SenderIntoglo,
			wantDirection: domain.DirectionOutbound,
		},
		{
			name:          "carrier is inbound",
			sender:        "in.export@maersk.com",
			wantCategory:  domain.SenderCarrier,
			wantDirection: domain.DirectionInbound,
		},
		{
			name:          "true sender overrides envelope sender",
			sender:        "forwarding-bot@intoglo.com",
			trueSender:    "in.export@maersk.com",
			wantCategory:  domain.SenderCarrier,
			wantDirection: domain.DirectionInbound,
		},
		{
			name:          "unknown sender defaults inbound",
			sender:        "somebody@example.com",
			wantCategory:  domain.SenderUnknown,
			wantDirection: domain.DirectionInbound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &domain.ClassificationInput{
				SenderEmail:     tt.sender,
				TrueSenderEmail: tt.trueSender,
			}
			category, direction := classifier.Resolve(input)
			if category != tt.wantCategory {
				t.Errorf("category = %v, want %v", category, tt.wantCategory)
			}
			if direction != tt.wantDirection {
				t.Errorf("direction = %v, want %v", direction, tt.wantDirection)
			}
		})
	}
}

func TestSenderClassifierOverrides(t *testing.T) {
	classifier := NewSenderClassifier(&SenderTables{
		ShipperDomains: []string{"acmeexports.in"},
		CarrierDomains: []string{"regionalcarrier.example"},
	})

	if got := classifier.Categorize("exports@acmeexports.in"); got != domain.SenderShipper {
		t.Errorf("shipper override = %v, want %v", got, domain.SenderShipper)
	}
	if got := classifier.Categorize("ops@regionalcarrier.example"); got != domain.SenderCarrier {
		t.Errorf("carrier override = %v, want %v", got, domain.SenderCarrier)
	}
	// Replacing the carrier table drops the defaults.
	if got := classifier.Categorize("in.export@maersk.com"); got != domain.SenderUnknown {
		t.Errorf("default carrier after override = %v, want %v", got, domain.SenderUnknown)
	}
}
