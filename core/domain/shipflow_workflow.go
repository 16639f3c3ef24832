package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowState is a named checkpoint in a shipment's document lifecycle.
type WorkflowState string

const (
	// === Pre-shipment ===
	StateBookingRequested            WorkflowState = "booking_requested"
	StateBookingConfirmationReceived WorkflowState = "booking_confirmation_received"
	StateBookingConfirmationShared   WorkflowState = "booking_confirmation_shared"
	StateSIReceived                  WorkflowState = "si_received"
	StateSISubmitted                 WorkflowState = "si_submitted"

	// === Pre-departure ===
	StateSIConfirmed     WorkflowState = "si_confirmed"
	StateBLDraftReceived WorkflowState = "bl_draft_received"
	StateBLDraftApproved WorkflowState = "bl_draft_approved"

	// === In-transit ===
	StateBLReleased     WorkflowState = "bl_released"
	StateVesselDeparted WorkflowState = "vessel_departed"

	// === Arrival ===
	StateArrivalNoticeReceived WorkflowState = "arrival_notice_received"
	StateBillOfEntryFiled      WorkflowState = "bill_of_entry_filed"
	StateCustomsCleared        WorkflowState = "customs_cleared"
	StateDeliveryOrderReceived WorkflowState = "delivery_order_received"

	// === Terminal ===
	StateDelivered WorkflowState = "delivered"
	StateCancelled WorkflowState = "cancelled"

	// === Parallel origin track ===
	StateEmptyContainerPickup WorkflowState = "empty_container_pickup"
	StateContainerGateIn      WorkflowState = "container_gate_in"
	StateShippingBillFiled    WorkflowState = "shipping_bill_filed"

	// === Parallel destination track ===
	StateDeliveryScheduled WorkflowState = "delivery_scheduled"
)

// WorkflowPhase is a coarse grouping of workflow states.
type WorkflowPhase string

const (
	PhasePreShipment  WorkflowPhase = "pre_shipment"
	PhasePreDeparture WorkflowPhase = "pre_departure"
	PhaseInTransit    WorkflowPhase = "in_transit"
	PhaseArrival      WorkflowPhase = "arrival"
	PhaseDelivered    WorkflowPhase = "delivered"
)

// ParallelTrack names a side workflow that progresses independently of the
// main forward-only sequence.
type ParallelTrack string

const (
	TrackOrigin      ParallelTrack = "origin"
	TrackDestination ParallelTrack = "destination"
)

// TriggerKind records what evidence caused a transition.
type TriggerKind string

const (
	TriggerDocument TriggerKind = "document"
	TriggerEmail    TriggerKind = "email"
	TriggerBoth     TriggerKind = "both"
)

// TriggerPredicate declares what classification output can fire a rule.
// A rule fires when the direction matches and either a document type or an
// email type (plus any required subject substring) matches.
type TriggerPredicate struct {
	DocumentTypes []DocumentType
	EmailTypes    []EmailType
	// Direction is required: inbound, outbound, or DirectionAny.
	Direction       Direction
	SubjectContains []string // required (any-of) for an email-type match
	// AllowedSenders empty means any sender category may trigger the rule.
	AllowedSenders []SenderCategory
}

// TransitionRule is one row of the static workflow rule table.
type TransitionRule struct {
	State         WorkflowState
	Order         int // monotonic position in the progression, highest wins ties
	Phase         WorkflowPhase
	Trigger       TriggerPredicate
	Prerequisites []WorkflowState
	Parallel      bool
	Track         ParallelTrack // set only when Parallel
}

// ShipmentStatus is the coarse shipment flag set by terminal transitions.
type ShipmentStatus string

const (
	ShipmentActive    ShipmentStatus = "active"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentCancelled ShipmentStatus = "cancelled"
)

// ShipmentWorkflowState is the mutable workflow snapshot of one shipment.
// Mutated only by the transition engine.
type ShipmentWorkflowState struct {
	ShipmentID       uuid.UUID
	CurrentState     WorkflowState // empty before the first transition
	CurrentPhase     WorkflowPhase
	OriginState      *WorkflowState
	DestinationState *WorkflowState
	Status           ShipmentStatus
	// Version guards the read-modify-write cycle: a transition write only
	// succeeds when the version read in step 1 is still current.
	Version int64
}

// TransitionRecord is an append-only audit entry. Replaying a shipment's
// ordered main-chain records (Parallel false) and taking the last ToState
// must equal its current state; parallel records replay the matching track
// pointer the same way.
type TransitionRecord struct {
	ID             int64
	ShipmentID     uuid.UUID
	FromState      *WorkflowState // nil for the first transition
	ToState        WorkflowState
	DocumentType   *DocumentType
	EmailType      *EmailType
	SenderCategory SenderCategory
	TriggerKind    TriggerKind
	Direction      Direction
	Parallel       bool
	Track          ParallelTrack // set only when Parallel
	Notes          string
	CreatedAt      time.Time
}

// NoTransitionReason is the machine-readable reason for a no-op outcome.
type NoTransitionReason string

const (
	ReasonNoMatchingRule       NoTransitionReason = "no matching rule"
	ReasonSenderUnauthorized   NoTransitionReason = "sender unauthorized"
	ReasonNoForwardProgression NoTransitionReason = "no forward progression"
	ReasonPrerequisitesUnmet   NoTransitionReason = "prerequisites unmet"
)

// TransitionResult is returned by every transition attempt. A no-op is a
// first-class outcome, not an error.
type TransitionResult struct {
	Transitioned  bool
	FromState     WorkflowState
	ToState       WorkflowState
	Phase         WorkflowPhase
	TriggerKind   TriggerKind
	ParallelTrack ParallelTrack // set when a parallel-track rule fired
	Reason        NoTransitionReason
}
