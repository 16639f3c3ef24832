package worker

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"shipflow_server/adapter/out/messaging"
	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"
	"shipflow_server/core/service/classification"
	"shipflow_server/core/service/ingest"
	"shipflow_server/core/service/workflow"
)

type stubStateStore struct {
	state *domain.ShipmentWorkflowState
}

func (s *stubStateStore) GetWorkflowState(ctx context.Context, shipmentID uuid.UUID) (*domain.ShipmentWorkflowState, error) {
	return s.state, nil
}

func (s *stubStateStore) GetTransitionHistory(ctx context.Context, shipmentID uuid.UUID) ([]*domain.TransitionRecord, error) {
	return nil, nil
}

func (s *stubStateStore) ApplyTransition(ctx context.Context, expectedVersion int64, write *out.TransitionWrite) error {
	s.state = write.State
	return nil
}

type stubClassificationRepo struct {
	saved []*domain.ClassificationOutput
}

func (r *stubClassificationRepo) Save(ctx context.Context, output *domain.ClassificationOutput) error {
	r.saved = append(r.saved, output)
	return nil
}

func (r *stubClassificationRepo) GetByEmailID(ctx context.Context, emailID uuid.UUID) (*domain.ClassificationOutput, error) {
	return nil, nil
}

type capturingProducer struct {
	classifications []*domain.ClassificationOutput
	transitions     []*out.TransitionEvent
}

func (p *capturingProducer) PublishEmailIngest(ctx context.Context, job *out.EmailIngestJob) error {
	return nil
}

func (p *capturingProducer) PublishClassification(ctx context.Context, output *domain.ClassificationOutput) error {
	p.classifications = append(p.classifications, output)
	return nil
}

func (p *capturingProducer) PublishTransition(ctx context.Context, event *out.TransitionEvent) error {
	p.transitions = append(p.transitions, event)
	return nil
}

func newTestProcessor(t *testing.T, producer out.MessageProducer) (*IngestProcessor, *stubClassificationRepo) {
	t.Helper()
	engine, err := workflow.NewEngine(&stubStateStore{}, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	pipeline := classification.NewPipeline(nil, classification.ClassifierConfig{}, nil, nil, nil)
	repo := &stubClassificationRepo{}
	service := ingest.NewService(pipeline, engine, repo, nil, nil)
	return NewIngestProcessor(service, producer, nil), repo
}

func TestIngestProcessorHandle(t *testing.T) {
	producer := &capturingProducer{}
	processor, repo := newTestProcessor(t, producer)

	job := out.EmailIngestJob{
		EmailID:         uuid.New(),
		ShipmentID:      uuid.New(),
		Subject:         "Booking Confirmation - 250114890",
		SenderEmail:     "in.export@maersk.com",
		AttachmentNames: []string{"Booking_Confirmation.pdf"},
	}
	data, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}

	if err := processor.Handle(context.Background(), messaging.StreamEmailIngest, data); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("saved classifications = %d, want 1", len(repo.saved))
	}
	if repo.saved[0].DocumentType != domain.DocBookingConfirmation {
		t.Errorf("DocumentType = %v", repo.saved[0].DocumentType)
	}
	if len(producer.classifications) != 1 {
		t.Errorf("published classifications = %d, want 1", len(producer.classifications))
	}
	if len(producer.transitions) != 1 {
		t.Fatalf("published transitions = %d, want 1", len(producer.transitions))
	}
	event := producer.transitions[0]
	if !event.Transitioned || event.ToState != domain.StateBookingConfirmationReceived {
		t.Errorf("transition event = %+v", event)
	}
}

func TestIngestProcessorHandleRejectsBadJobs(t *testing.T) {
	processor, _ := newTestProcessor(t, nil)

	tests := []struct {
		name   string
		stream string
		data   []byte
	}{
		{"wrong stream", "other:stream", []byte(`{}`)},
		{"malformed payload", messaging.StreamEmailIngest, []byte(`{not json`)},
		{"missing email id", messaging.StreamEmailIngest, []byte(`{"subject":"hi"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := processor.Handle(context.Background(), tt.stream, tt.data); err == nil {
				t.Error("err = nil, want an error")
			}
		})
	}
}

func TestIngestProcessorWithoutProducer(t *testing.T) {
	processor, repo := newTestProcessor(t, nil)

	job := out.EmailIngestJob{EmailID: uuid.New(), Subject: "FYI"}
	data, _ := json.Marshal(job)

	if err := processor.Handle(context.Background(), messaging.StreamEmailIngest, data); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved classifications = %d, want 1", len(repo.saved))
	}
}
