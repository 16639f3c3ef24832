package classification

import (
	"shipflow_server/core/domain"
)

// =============================================================================
// Suggested Workflow State Hints
// =============================================================================

// stateHintKey pairs the evidence that selects a hint.
type stateHintKey struct {
	docType   domain.DocumentType
	direction domain.Direction
}

// The same document implies a different checkpoint depending on who sent it:
// a carrier's booking confirmation was received, the forwarder's own copy
// was shared with the client.
var stateHints = map[stateHintKey]domain.WorkflowState{
	{domain.DocBookingConfirmation, domain.DirectionInbound}:  domain.StateBookingConfirmationReceived,
	{domain.DocBookingConfirmation, domain.DirectionOutbound}: domain.StateBookingConfirmationShared,
	{domain.DocShippingInstructions, domain.DirectionInbound}: domain.StateSIReceived,
	{domain.DocShippingInstructions, domain.DirectionOutbound}: domain.StateSISubmitted,
	{domain.DocSIConfirmation, domain.DirectionInbound}:       domain.StateSIConfirmed,
	{domain.DocBLDraft, domain.DirectionInbound}:              domain.StateBLDraftReceived,
	{domain.DocBLReleased, domain.DirectionInbound}:           domain.StateBLReleased,
	{domain.DocArrivalNotice, domain.DirectionInbound}:        domain.StateArrivalNoticeReceived,
	{domain.DocBillOfEntry, domain.DirectionInbound}:          domain.StateBillOfEntryFiled,
	{domain.DocCustomsClearance, domain.DirectionInbound}:     domain.StateCustomsCleared,
	{domain.DocDeliveryOrder, domain.DirectionInbound}:        domain.StateDeliveryOrderReceived,
	{domain.DocProofOfDelivery, domain.DirectionInbound}:      domain.StateDelivered,
	{domain.DocBookingCancellation, domain.DirectionInbound}:  domain.StateCancelled,
	{domain.DocContainerPickup, domain.DirectionInbound}:      domain.StateEmptyContainerPickup,
	{domain.DocGateInConfirmation, domain.DirectionInbound}:   domain.StateContainerGateIn,
	{domain.DocShippingBill, domain.DirectionInbound}:         domain.StateShippingBillFiled,
}

// SuggestWorkflowState maps classification evidence to the workflow state it
// most likely represents. Returns "" when there is no meaningful hint. The
// hint is advisory only; the transition engine makes the real decision.
func SuggestWorkflowState(docType domain.DocumentType, emailType domain.EmailType, direction domain.Direction) domain.WorkflowState {
	if state, ok := stateHints[stateHintKey{docType, direction}]; ok {
		return state
	}
	if emailType == domain.EmailTypeBookingRequest && direction == domain.DirectionInbound {
		return domain.StateBookingRequested
	}
	return ""
}
