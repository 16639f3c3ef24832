package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"
	"shipflow_server/pkg/logger"
)

// =============================================================================
// Transition engine
// =============================================================================

// TransitionInput is one attempt to advance a shipment from a classified email.
type TransitionInput struct {
	ShipmentID     uuid.UUID
	Subject        string
	Classification *domain.ClassificationOutput

	// Force bypasses the forward-only order check for operator corrections.
	// Authority and prerequisite checks still apply.
	Force bool
}

// Engine evaluates classified emails against the static rule table and
// persists the winning transition. All writes go through the store's
// version check; a concurrent update restarts the whole attempt.
type Engine struct {
	rules      []domain.TransitionRule
	store      out.ShipmentStateStore
	maxRetries int
	log        *logger.Logger
}

// NewEngine builds a transition engine over the static rule table.
func NewEngine(store out.ShipmentStateStore, log *logger.Logger) (*Engine, error) {
	rules := Rules()
	if err := ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("invalid transition rule table: %w", err)
	}
	if log == nil {
		log = logger.Default()
	}
	return &Engine{
		rules:      rules,
		store:      store,
		maxRetries: 3,
		log:        log,
	}, nil
}

// AttemptTransition runs the full evaluation sequence for one classified
// email. A no-op outcome is returned as a result with a reason, never as an
// error; errors are reserved for store failures.
func (e *Engine) AttemptTransition(ctx context.Context, input *TransitionInput) (*domain.TransitionResult, error) {
	if input == nil || input.Classification == nil {
		return nil, errors.New("transition input requires a classification")
	}

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		result, err := e.attemptOnce(ctx, input)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, out.ErrStateConflict) {
			return nil, err
		}
		lastErr = err
		e.log.Warn("transition conflict for shipment %s, retrying (%d/%d)",
			input.ShipmentID, attempt+1, e.maxRetries)
	}
	return nil, fmt.Errorf("transition for shipment %s exhausted retries: %w", input.ShipmentID, lastErr)
}

func (e *Engine) attemptOnce(ctx context.Context, input *TransitionInput) (*domain.TransitionResult, error) {
	state, err := e.store.GetWorkflowState(ctx, input.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("load workflow state: %w", err)
	}
	if state == nil {
		state = &domain.ShipmentWorkflowState{
			ShipmentID: input.ShipmentID,
			Status:     domain.ShipmentActive,
		}
	}

	result := &domain.TransitionResult{FromState: state.CurrentState}

	if state.Status == domain.ShipmentDelivered || state.Status == domain.ShipmentCancelled {
		result.Reason = domain.ReasonNoForwardProgression
		return result, nil
	}

	rule, kind, reason := e.selectRule(input, state)
	if rule == nil {
		result.Reason = reason
		return result, nil
	}

	write := e.buildWrite(input, state, rule, kind)
	if err := e.store.ApplyTransition(ctx, state.Version, write); err != nil {
		return nil, err
	}

	result.Transitioned = true
	result.ToState = rule.State
	result.Phase = rule.Phase
	result.TriggerKind = kind
	if rule.Parallel {
		result.ParallelTrack = rule.Track
	}

	e.log.WithFields(map[string]any{
		"shipment_id": input.ShipmentID.String(),
		"from":        string(result.FromState),
		"to":          string(result.ToState),
		"trigger":     string(kind),
	}).Info("shipment transitioned")

	return result, nil
}

// selectRule runs candidate matching, the authority filter, the forward-only
// check, and the prerequisite check, in that order. The reason reflects the
// last gate at which every remaining candidate was eliminated.
func (e *Engine) selectRule(input *TransitionInput, state *domain.ShipmentWorkflowState) (*domain.TransitionRule, domain.TriggerKind, domain.NoTransitionReason) {
	type candidate struct {
		rule *domain.TransitionRule
		kind domain.TriggerKind
	}

	var candidates []candidate
	for i := range e.rules {
		rule := &e.rules[i]
		kind, ok := matchTrigger(rule.Trigger, input)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{rule: rule, kind: kind})
	}
	if len(candidates) == 0 {
		return nil, "", domain.ReasonNoMatchingRule
	}

	authorized := candidates[:0]
	for _, c := range candidates {
		if senderAllowed(c.rule.Trigger.AllowedSenders, input.Classification.SenderCategory) {
			authorized = append(authorized, c)
		}
	}
	if len(authorized) == 0 {
		return nil, "", domain.ReasonSenderUnauthorized
	}

	currentOrder := orderOf(state.CurrentState)
	forward := authorized[:0]
	for _, c := range authorized {
		// Parallel tracks run beside the main sequence, so only the main
		// chain is held to strictly increasing order.
		if !c.rule.Parallel && !input.Force && c.rule.Order <= currentOrder {
			continue
		}
		forward = append(forward, c)
	}
	if len(forward) == 0 {
		return nil, "", domain.ReasonNoForwardProgression
	}

	eligible := forward[:0]
	for _, c := range forward {
		if e.prerequisitesMet(c.rule, state) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil, "", domain.ReasonPrerequisitesUnmet
	}

	// Highest order wins; declaration order breaks ties.
	best := eligible[0]
	for _, c := range eligible[1:] {
		if c.rule.Order > best.rule.Order {
			best = c
		}
	}
	return best.rule, best.kind, ""
}

// matchTrigger reports whether the classified email satisfies a rule's
// predicate and which evidence kind carried the match. A document match is
// suppressed when the classification flagged the email as carrying no real
// document evidence.
func matchTrigger(trigger domain.TriggerPredicate, input *TransitionInput) (domain.TriggerKind, bool) {
	cls := input.Classification

	if trigger.Direction != domain.DirectionAny && trigger.Direction != cls.Direction {
		return "", false
	}

	docMatch := false
	if !cls.NoDocumentEvidence {
		for _, dt := range trigger.DocumentTypes {
			if dt == cls.DocumentType {
				docMatch = true
				break
			}
		}
	}

	emailMatch := false
	if subjectMatches(trigger.SubjectContains, input.Subject) {
		for _, et := range trigger.EmailTypes {
			if et == cls.EmailType {
				emailMatch = true
				break
			}
		}
	}

	switch {
	case docMatch && emailMatch:
		return domain.TriggerBoth, true
	case docMatch:
		return domain.TriggerDocument, true
	case emailMatch:
		return domain.TriggerEmail, true
	default:
		return "", false
	}
}

func subjectMatches(markers []string, subject string) bool {
	if len(markers) == 0 {
		return true
	}
	lowered := strings.ToLower(subject)
	for _, marker := range markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func senderAllowed(allowed []domain.SenderCategory, sender domain.SenderCategory) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == sender {
			return true
		}
	}
	return false
}

// orderOf returns the rule-table order of a state, or 0 for the empty
// pre-workflow state.
func orderOf(state domain.WorkflowState) int {
	if state == "" {
		return 0
	}
	if rule, ok := RuleFor(state); ok {
		return rule.Order
	}
	return 0
}

// prerequisitesMet checks every prerequisite against the shipment snapshot.
// Main-chain prerequisites are satisfied once the shipment is at or past
// them; parallel prerequisites are satisfied by the matching track state.
func (e *Engine) prerequisitesMet(rule *domain.TransitionRule, state *domain.ShipmentWorkflowState) bool {
	for _, prereq := range rule.Prerequisites {
		prereqRule, ok := RuleFor(prereq)
		if !ok {
			return false
		}
		if prereqRule.Parallel {
			if !trackAtOrPast(state, prereqRule.Track, prereqRule.Order) {
				return false
			}
			continue
		}
		if orderOf(state.CurrentState) < prereqRule.Order {
			return false
		}
	}
	return true
}

func trackAtOrPast(state *domain.ShipmentWorkflowState, track domain.ParallelTrack, order int) bool {
	var current *domain.WorkflowState
	switch track {
	case domain.TrackOrigin:
		current = state.OriginState
	case domain.TrackDestination:
		current = state.DestinationState
	}
	if current == nil {
		return false
	}
	return orderOf(*current) >= order
}

// buildWrite assembles the new snapshot plus its audit record.
func (e *Engine) buildWrite(input *TransitionInput, state *domain.ShipmentWorkflowState, rule *domain.TransitionRule, kind domain.TriggerKind) *out.TransitionWrite {
	cls := input.Classification

	next := *state
	next.Version = state.Version + 1
	if rule.Parallel {
		trackState := rule.State
		switch rule.Track {
		case domain.TrackOrigin:
			next.OriginState = &trackState
		case domain.TrackDestination:
			next.DestinationState = &trackState
		}
	} else {
		next.CurrentState = rule.State
		next.CurrentPhase = rule.Phase
	}

	record := &domain.TransitionRecord{
		ShipmentID:     input.ShipmentID,
		ToState:        rule.State,
		SenderCategory: cls.SenderCategory,
		TriggerKind:    kind,
		Direction:      cls.Direction,
		Parallel:       rule.Parallel,
		Track:          rule.Track,
		CreatedAt:      time.Now().UTC(),
	}
	if rule.Parallel {
		switch rule.Track {
		case domain.TrackOrigin:
			record.FromState = state.OriginState
		case domain.TrackDestination:
			record.FromState = state.DestinationState
		}
	} else if state.CurrentState != "" {
		from := state.CurrentState
		record.FromState = &from
	}
	if kind == domain.TriggerDocument || kind == domain.TriggerBoth {
		dt := cls.DocumentType
		record.DocumentType = &dt
	}
	if kind == domain.TriggerEmail || kind == domain.TriggerBoth {
		et := cls.EmailType
		record.EmailType = &et
	}
	if input.Force {
		record.Notes = "forced transition"
	}

	write := &out.TransitionWrite{State: &next, Record: record}
	switch rule.State {
	case domain.StateDelivered:
		next.Status = domain.ShipmentDelivered
		write.Status = domain.ShipmentDelivered
	case domain.StateCancelled:
		next.Status = domain.ShipmentCancelled
		write.Status = domain.ShipmentCancelled
	}

	return write
}
