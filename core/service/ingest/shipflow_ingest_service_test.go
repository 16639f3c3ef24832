package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"
	"shipflow_server/core/service/classification"
	"shipflow_server/core/service/workflow"
)

type memoryStateStore struct {
	state      *domain.ShipmentWorkflowState
	records    []*domain.TransitionRecord
	applyCalls int
}

func (s *memoryStateStore) GetWorkflowState(ctx context.Context, shipmentID uuid.UUID) (*domain.ShipmentWorkflowState, error) {
	if s.state == nil {
		return nil, nil
	}
	snapshot := *s.state
	return &snapshot, nil
}

func (s *memoryStateStore) GetTransitionHistory(ctx context.Context, shipmentID uuid.UUID) ([]*domain.TransitionRecord, error) {
	return s.records, nil
}

func (s *memoryStateStore) ApplyTransition(ctx context.Context, expectedVersion int64, write *out.TransitionWrite) error {
	s.applyCalls++
	var current int64
	if s.state != nil {
		current = s.state.Version
	}
	if expectedVersion != current {
		return out.ErrStateConflict
	}
	next := *write.State
	s.state = &next
	s.records = append(s.records, write.Record)
	return nil
}

type memoryClassificationRepo struct {
	saved   map[uuid.UUID]*domain.ClassificationOutput
	saveErr error
}

func newMemoryClassificationRepo() *memoryClassificationRepo {
	return &memoryClassificationRepo{saved: make(map[uuid.UUID]*domain.ClassificationOutput)}
}

func (r *memoryClassificationRepo) Save(ctx context.Context, output *domain.ClassificationOutput) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved[output.EmailID] = output
	return nil
}

func (r *memoryClassificationRepo) GetByEmailID(ctx context.Context, emailID uuid.UUID) (*domain.ClassificationOutput, error) {
	return r.saved[emailID], nil
}

type stubAttachmentStore struct {
	record *out.AttachmentRecord
	err    error
	calls  int
}

func (s *stubAttachmentStore) GetByEmailID(ctx context.Context, emailID uuid.UUID) (*out.AttachmentRecord, error) {
	s.calls++
	return s.record, s.err
}

func newTestService(t *testing.T, store out.ShipmentStateStore, repo out.ClassificationRepository, attachments out.AttachmentTextStore) *Service {
	t.Helper()
	engine, err := workflow.NewEngine(store, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	pipeline := classification.NewPipeline(nil, classification.ClassifierConfig{}, nil, nil, nil)
	return NewService(pipeline, engine, repo, attachments, nil)
}

func TestServiceProcessClassifiesAndTransitions(t *testing.T) {
	store := &memoryStateStore{}
	repo := newMemoryClassificationRepo()
	service := newTestService(t, store, repo, nil)

	emailID := uuid.New()
	shipmentID := uuid.New()

	result, err := service.Process(context.Background(), &Request{
		ShipmentID: shipmentID,
		Input: &domain.ClassificationInput{
			EmailID:         emailID,
			Subject:         "Booking Confirmation - 250114890",
			SenderEmail:     "in.export@maersk.com",
			Body:            "Please find attached the booking confirmation.",
			AttachmentNames: []string{"Booking_Confirmation_250114890.pdf"},
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Classification.DocumentType != domain.DocBookingConfirmation {
		t.Errorf("DocumentType = %v", result.Classification.DocumentType)
	}
	if repo.saved[emailID] == nil {
		t.Error("classification was not stored")
	}
	if result.Transition == nil || !result.Transition.Transitioned {
		t.Fatalf("Transition = %+v, want a transition", result.Transition)
	}
	if result.Transition.ToState != domain.StateBookingConfirmationReceived {
		t.Errorf("ToState = %v", result.Transition.ToState)
	}
	if store.state == nil || store.state.CurrentState != domain.StateBookingConfirmationReceived {
		t.Errorf("stored state = %+v", store.state)
	}
}

func TestServiceProcessWithoutShipmentSkipsTransition(t *testing.T) {
	store := &memoryStateStore{}
	repo := newMemoryClassificationRepo()
	service := newTestService(t, store, repo, nil)

	emailID := uuid.New()
	result, err := service.Process(context.Background(), &Request{
		Input: &domain.ClassificationInput{
			EmailID:     emailID,
			Subject:     "Booking Confirmation - 250114890",
			SenderEmail: "in.export@maersk.com",
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Transition != nil {
		t.Errorf("Transition = %+v, want nil without a linked shipment", result.Transition)
	}
	if repo.saved[emailID] == nil {
		t.Error("classification was not stored")
	}
	if store.applyCalls != 0 {
		t.Errorf("applyCalls = %d, want 0", store.applyCalls)
	}
}

func TestServiceProcessEnrichesAttachmentText(t *testing.T) {
	attachments := &stubAttachmentStore{record: &out.AttachmentRecord{
		Filenames:     []string{"scan0001.pdf"},
		ExtractedText: "ARRIVAL NOTICE\nVessel: MSC ANNA",
	}}
	repo := newMemoryClassificationRepo()
	service := newTestService(t, &memoryStateStore{}, repo, attachments)

	result, err := service.Process(context.Background(), &Request{
		Input: &domain.ClassificationInput{
			EmailID:         uuid.New(),
			Subject:         "Documents for booking 250114890",
			SenderEmail:     "in.import@maersk.com",
			AttachmentNames: []string{"scan0001.pdf"},
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if attachments.calls != 1 {
		t.Errorf("attachment lookups = %d, want 1", attachments.calls)
	}
	if result.Classification.DocumentType != domain.DocArrivalNotice {
		t.Errorf("DocumentType = %v, want %v", result.Classification.DocumentType, domain.DocArrivalNotice)
	}
	if result.Classification.Method != domain.MethodAttachmentContent {
		t.Errorf("Method = %v, want %v", result.Classification.Method, domain.MethodAttachmentContent)
	}
}

func TestServiceProcessToleratesAttachmentLookupFailure(t *testing.T) {
	attachments := &stubAttachmentStore{err: errors.New("mongo down")}
	repo := newMemoryClassificationRepo()
	service := newTestService(t, &memoryStateStore{}, repo, attachments)

	result, err := service.Process(context.Background(), &Request{
		Input: &domain.ClassificationInput{
			EmailID:         uuid.New(),
			Subject:         "Booking Confirmation - 250114890",
			SenderEmail:     "in.export@maersk.com",
			AttachmentNames: []string{"bc.pdf"},
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// Subject evidence still carries the classification.
	if result.Classification.DocumentType != domain.DocBookingConfirmation {
		t.Errorf("DocumentType = %v", result.Classification.DocumentType)
	}
}

func TestServiceProcessSaveFailure(t *testing.T) {
	repo := newMemoryClassificationRepo()
	repo.saveErr = errors.New("postgres down")
	service := newTestService(t, &memoryStateStore{}, repo, nil)

	_, err := service.Process(context.Background(), &Request{
		Input: &domain.ClassificationInput{EmailID: uuid.New(), Subject: "FYI"},
	})
	if err == nil {
		t.Fatal("err = nil, want save failure")
	}
}

func TestServiceProcessRejectsNilInput(t *testing.T) {
	service := newTestService(t, &memoryStateStore{}, newMemoryClassificationRepo(), nil)
	if _, err := service.Process(context.Background(), nil); err == nil {
		t.Fatal("err = nil, want error for nil request")
	}
	if _, err := service.Process(context.Background(), &Request{}); err == nil {
		t.Fatal("err = nil, want error for missing input")
	}
}
