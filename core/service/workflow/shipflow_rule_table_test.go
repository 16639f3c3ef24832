package workflow

import (
	"strings"
	"testing"

	"shipflow_server/core/domain"
)

func TestValidateRulesAcceptsStaticTable(t *testing.T) {
	if err := ValidateRules(Rules()); err != nil {
		t.Fatalf("ValidateRules(Rules()) = %v", err)
	}
}

func TestValidateRulesRejectsBrokenTables(t *testing.T) {
	base := domain.TransitionRule{
		State: domain.StateBookingRequested,
		Order: 10,
		Phase: domain.PhasePreShipment,
		Trigger: domain.TriggerPredicate{
			DocumentTypes: []domain.DocumentType{domain.DocBookingConfirmation},
			Direction:     domain.DirectionInbound,
		},
	}

	tests := []struct {
		name    string
		rules   []domain.TransitionRule
		wantErr string
	}{
		{
			name:    "duplicate state",
			rules:   []domain.TransitionRule{base, base},
			wantErr: "duplicate rule",
		},
		{
			name: "no trigger evidence",
			rules: []domain.TransitionRule{{
				State: domain.StateBookingRequested,
				Order: 10,
			}},
			wantErr: "no trigger evidence",
		},
		{
			name: "email trigger without subject markers",
			rules: []domain.TransitionRule{{
				State: domain.StateBookingRequested,
				Order: 10,
				Trigger: domain.TriggerPredicate{
					EmailTypes: []domain.EmailType{domain.EmailTypeBookingRequest},
					Direction:  domain.DirectionInbound,
				},
			}},
			wantErr: "without subject markers",
		},
		{
			name: "trigger without direction",
			rules: []domain.TransitionRule{{
				State: domain.StateBookingRequested,
				Order: 10,
				Trigger: domain.TriggerPredicate{
					DocumentTypes: []domain.DocumentType{domain.DocBookingConfirmation},
				},
			}},
			wantErr: "no trigger direction",
		},
		{
			name: "parallel rule without track",
			rules: []domain.TransitionRule{{
				State: domain.StateEmptyContainerPickup,
				Order: 42,
				Trigger: domain.TriggerPredicate{
					DocumentTypes: []domain.DocumentType{domain.DocContainerPickup},
					Direction:     domain.DirectionInbound,
				},
				Parallel: true,
			}},
			wantErr: "no track",
		},
		{
			name: "track on a non-parallel rule",
			rules: []domain.TransitionRule{{
				State: domain.StateEmptyContainerPickup,
				Order: 42,
				Trigger: domain.TriggerPredicate{
					DocumentTypes: []domain.DocumentType{domain.DocContainerPickup},
					Direction:     domain.DirectionInbound,
				},
				Track: domain.TrackOrigin,
			}},
			wantErr: "not parallel",
		},
		{
			name: "shared order on the main chain",
			rules: []domain.TransitionRule{
				base,
				{
					State: domain.StateSIReceived,
					Order: 10,
					Trigger: domain.TriggerPredicate{
						DocumentTypes: []domain.DocumentType{domain.DocShippingInstructions},
						Direction:     domain.DirectionInbound,
					},
				},
			},
			wantErr: "share order",
		},
		{
			name: "prerequisite outside the table",
			rules: []domain.TransitionRule{
				{
					State: domain.StateSISubmitted,
					Order: 50,
					Trigger: domain.TriggerPredicate{
						DocumentTypes: []domain.DocumentType{domain.DocShippingInstructions},
						Direction:     domain.DirectionOutbound,
					},
					Prerequisites: []domain.WorkflowState{domain.StateSIReceived},
				},
			},
			wantErr: "unknown state",
		},
		{
			name: "state between a prerequisite and its dependent",
			rules: []domain.TransitionRule{
				base,
				{
					State: domain.StateSIReceived,
					Order: 15,
					Trigger: domain.TriggerPredicate{
						DocumentTypes: []domain.DocumentType{domain.DocShippingInstructions},
						Direction:     domain.DirectionInbound,
					},
				},
				{
					State: domain.StateBookingConfirmationShared,
					Order: 20,
					Trigger: domain.TriggerPredicate{
						DocumentTypes: []domain.DocumentType{domain.DocBookingConfirmation},
						Direction:     domain.DirectionOutbound,
					},
					Prerequisites: []domain.WorkflowState{domain.StateBookingRequested},
				},
			},
			wantErr: "without requiring it",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRules(tt.rules)
			if err == nil {
				t.Fatal("err = nil, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestRuleForAndOrderOf(t *testing.T) {
	rule, ok := RuleFor(domain.StateCustomsCleared)
	if !ok {
		t.Fatal("RuleFor(customs_cleared) not found")
	}
	if rule.Order != 130 || rule.Phase != domain.PhaseArrival {
		t.Errorf("rule = order %d phase %v", rule.Order, rule.Phase)
	}

	if _, ok := RuleFor("meaningless_state"); ok {
		t.Error("RuleFor returned a rule for an unknown state")
	}

	if got := orderOf(""); got != 0 {
		t.Errorf("orderOf(empty) = %d, want 0", got)
	}
	if got := orderOf(domain.StateCancelled); got != 900 {
		t.Errorf("orderOf(cancelled) = %d, want 900", got)
	}
}
