package workflow

import (
	"fmt"

	"shipflow_server/core/domain"
)

// =============================================================================
// Static transition rule table
// =============================================================================

// Orders are spaced by tens so a new checkpoint can slot in without
// renumbering the chain. Parallel-track rules carry an order for tie-breaks
// only; they never gate the main sequence.
var transitionRules = []domain.TransitionRule{
	// === Pre-shipment ===
	{
		State: domain.StateBookingRequested,
		Order: 10,
		Phase: domain.PhasePreShipment,
		Trigger: domain.TriggerPredicate{
			EmailTypes:      []domain.EmailType{domain.EmailTypeBookingRequest},
			Direction:       domain.DirectionInbound,
			SubjectContains: []string{"booking"},
		},
	},
	{
		State: domain.StateBookingConfirmationReceived,
		Order: 20,
		Phase: domain.PhasePreShipment,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocBookingConfirmation},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderCarrier},
		},
	},
	{
		State: domain.StateBookingConfirmationShared,
		Order: 30,
		Phase: domain.PhasePreShipment,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocBookingConfirmation},
			Direction:      domain.DirectionOutbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderIntoglo},
		},
		Prerequisites: []domain.WorkflowState{domain.StateBookingConfirmationReceived},
	},
	{
		State: domain.StateSIReceived,
		Order: 40,
		Phase: domain.PhasePreShipment,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocShippingInstructions},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderShipper},
		},
	},
	{
		State: domain.StateSISubmitted,
		Order: 50,
		Phase: domain.PhasePreShipment,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocShippingInstructions},
			Direction:      domain.DirectionOutbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderIntoglo},
		},
		Prerequisites: []domain.WorkflowState{domain.StateSIReceived},
	},

	// === Pre-departure ===
	{
		State: domain.StateSIConfirmed,
		Order: 60,
		Phase: domain.PhasePreDeparture,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocSIConfirmation},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderCarrier},
		},
		Prerequisites: []domain.WorkflowState{domain.StateSISubmitted},
	},
	{
		State: domain.StateBLDraftReceived,
		Order: 70,
		Phase: domain.PhasePreDeparture,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocBLDraft},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderCarrier},
		},
	},
	{
		State: domain.StateBLDraftApproved,
		Order: 80,
		Phase: domain.PhasePreDeparture,
		Trigger: domain.TriggerPredicate{
			EmailTypes:      []domain.EmailType{domain.EmailTypeApproval},
			Direction:       domain.DirectionOutbound,
			SubjectContains: []string{"bl", "draft", "bill of lading"},
			AllowedSenders:  []domain.SenderCategory{domain.SenderIntoglo, domain.SenderShipper},
		},
		Prerequisites: []domain.WorkflowState{domain.StateBLDraftReceived},
	},

	// === In-transit ===
	{
		State: domain.StateBLReleased,
		Order: 90,
		Phase: domain.PhaseInTransit,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:   []domain.DocumentType{domain.DocBLReleased},
			EmailTypes:      []domain.EmailType{domain.EmailTypeStatusUpdate},
			Direction:       domain.DirectionInbound,
			SubjectContains: []string{"telex release", "bl released", "obl"},
			AllowedSenders:  []domain.SenderCategory{domain.SenderCarrier},
		},
		Prerequisites: []domain.WorkflowState{domain.StateBLDraftApproved},
	},
	{
		State: domain.StateVesselDeparted,
		Order: 100,
		Phase: domain.PhaseInTransit,
		Trigger: domain.TriggerPredicate{
			EmailTypes:      []domain.EmailType{domain.EmailTypeStatusUpdate},
			Direction:       domain.DirectionInbound,
			SubjectContains: []string{"departed", "sailed", "vessel departure", "shipped on board"},
			AllowedSenders:  []domain.SenderCategory{domain.SenderCarrier},
		},
	},

	// === Arrival ===
	{
		State: domain.StateArrivalNoticeReceived,
		Order: 110,
		Phase: domain.PhaseArrival,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocArrivalNotice},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderCarrier},
		},
	},
	{
		State: domain.StateBillOfEntryFiled,
		Order: 120,
		Phase: domain.PhaseArrival,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocBillOfEntry},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderCHA},
		},
		Prerequisites: []domain.WorkflowState{domain.StateArrivalNoticeReceived},
	},
	{
		State: domain.StateCustomsCleared,
		Order: 130,
		Phase: domain.PhaseArrival,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocCustomsClearance},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderCHA},
		},
		Prerequisites: []domain.WorkflowState{domain.StateBillOfEntryFiled},
	},
	{
		State: domain.StateDeliveryOrderReceived,
		Order: 140,
		Phase: domain.PhaseArrival,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocDeliveryOrder},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderCarrier, domain.SenderCHA},
		},
		Prerequisites: []domain.WorkflowState{domain.StateCustomsCleared},
	},

	// === Terminal ===
	{
		State: domain.StateDelivered,
		Order: 150,
		Phase: domain.PhaseDelivered,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocProofOfDelivery},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderTrucker, domain.SenderCHA},
		},
		Prerequisites: []domain.WorkflowState{domain.StateDeliveryOrderReceived},
	},
	{
		// Cancellation can arrive from either side of the conversation.
		State: domain.StateCancelled,
		Order: 900,
		Phase: domain.PhaseDelivered,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:   []domain.DocumentType{domain.DocBookingCancellation},
			EmailTypes:      []domain.EmailType{domain.EmailTypeRejection},
			Direction:       domain.DirectionAny,
			SubjectContains: []string{"cancel"},
		},
	},

	// === Parallel origin track ===
	{
		State: domain.StateEmptyContainerPickup,
		Order: 42,
		Phase: domain.PhasePreDeparture,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocContainerPickup},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderTrucker},
		},
		Parallel: true,
		Track:    domain.TrackOrigin,
	},
	{
		State: domain.StateContainerGateIn,
		Order: 55,
		Phase: domain.PhasePreDeparture,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocGateInConfirmation},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderTrucker, domain.SenderCarrier},
		},
		Prerequisites: []domain.WorkflowState{domain.StateEmptyContainerPickup},
		Parallel:      true,
		Track:         domain.TrackOrigin,
	},
	{
		State: domain.StateShippingBillFiled,
		Order: 65,
		Phase: domain.PhasePreDeparture,
		Trigger: domain.TriggerPredicate{
			DocumentTypes:  []domain.DocumentType{domain.DocShippingBill},
			Direction:      domain.DirectionInbound,
			AllowedSenders: []domain.SenderCategory{domain.SenderCHA},
		},
		Parallel: true,
		Track:    domain.TrackOrigin,
	},

	// === Parallel destination track ===
	{
		State: domain.StateDeliveryScheduled,
		Order: 135,
		Phase: domain.PhaseArrival,
		Trigger: domain.TriggerPredicate{
			EmailTypes:      []domain.EmailType{domain.EmailTypeStatusUpdate},
			Direction:       domain.DirectionInbound,
			SubjectContains: []string{"delivery schedule", "delivery appointment", "delivery planned"},
			AllowedSenders:  []domain.SenderCategory{domain.SenderTrucker},
		},
		Prerequisites: []domain.WorkflowState{domain.StateCustomsCleared},
		Parallel:      true,
		Track:         domain.TrackDestination,
	},
}

// Rules returns the static transition rule table.
func Rules() []domain.TransitionRule {
	return transitionRules
}

// RuleFor returns the rule that produces the given state.
func RuleFor(state domain.WorkflowState) (domain.TransitionRule, bool) {
	for _, rule := range transitionRules {
		if rule.State == state {
			return rule, true
		}
	}
	return domain.TransitionRule{}, false
}

// ValidateRules checks the structural invariants of the rule table. Called
// once at bootstrap; a broken table is a programming error.
func ValidateRules(rules []domain.TransitionRule) error {
	byState := make(map[domain.WorkflowState]domain.TransitionRule, len(rules))
	seenOrders := make(map[int]domain.WorkflowState, len(rules))

	for _, rule := range rules {
		if _, dup := byState[rule.State]; dup {
			return fmt.Errorf("duplicate rule for state %s", rule.State)
		}
		byState[rule.State] = rule

		if len(rule.Trigger.DocumentTypes) == 0 && len(rule.Trigger.EmailTypes) == 0 {
			return fmt.Errorf("rule %s has no trigger evidence", rule.State)
		}
		if len(rule.Trigger.EmailTypes) > 0 && len(rule.Trigger.SubjectContains) == 0 {
			return fmt.Errorf("rule %s has an email trigger without subject markers", rule.State)
		}
		switch rule.Trigger.Direction {
		case domain.DirectionInbound, domain.DirectionOutbound, domain.DirectionAny:
		default:
			return fmt.Errorf("rule %s has no trigger direction", rule.State)
		}
		if rule.Parallel && rule.Track == "" {
			return fmt.Errorf("parallel rule %s has no track", rule.State)
		}
		if !rule.Parallel && rule.Track != "" {
			return fmt.Errorf("rule %s has a track but is not parallel", rule.State)
		}

		if !rule.Parallel {
			if other, dup := seenOrders[rule.Order]; dup {
				return fmt.Errorf("rules %s and %s share order %d", other, rule.State, rule.Order)
			}
			seenOrders[rule.Order] = rule.State
		}
	}

	for _, rule := range rules {
		for _, prereq := range rule.Prerequisites {
			prereqRule, ok := byState[prereq]
			if !ok {
				return fmt.Errorf("rule %s requires unknown state %s", rule.State, prereq)
			}
			if prereqRule.Parallel {
				continue
			}
			// The engine checks a main-chain prerequisite by order position,
			// which is only equivalent to reached-state history when no
			// unrelated main-chain state sits between the prerequisite and
			// its dependent.
			for _, other := range rules {
				if other.Parallel || other.State == rule.State || other.State == prereq {
					continue
				}
				if other.Order > prereqRule.Order && other.Order < rule.Order && !requiresState(other, prereq) {
					return fmt.Errorf("rule %s sits between %s and its prerequisite %s without requiring it",
						other.State, rule.State, prereq)
				}
			}
		}
	}

	return nil
}

func requiresState(rule domain.TransitionRule, state domain.WorkflowState) bool {
	for _, p := range rule.Prerequisites {
		if p == state {
			return true
		}
	}
	return false
}
