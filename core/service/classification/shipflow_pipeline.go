package classification

import (
	"context"
	"time"

	"shipflow_server/core/domain"
	"shipflow_server/core/port/out"
	"shipflow_server/pkg/logger"

	"github.com/sony/gobreaker"
)

// =============================================================================
// Classification Pipeline (deterministic classifiers + AI fallback gate)
// =============================================================================

// PipelineConfig holds the arbitration thresholds.
type PipelineConfig struct {
	// ManualReviewThreshold: results below this document confidence are
	// flagged for review and considered for the AI fallback. 0-100.
	ManualReviewThreshold float64 // Default: 60

	// ReplyDowngradeFactor multiplies the confidence of a subject-only match
	// on a reply/forward with no attachment.
	ReplyDowngradeFactor float64 // Default: 0.5

	// FallbackTimeout bounds the external AI call. On expiry the pipeline
	// keeps the deterministic-only answer.
	FallbackTimeout time.Duration // Default: 20s
}

// DefaultPipelineConfig returns the default arbitration configuration.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		ManualReviewThreshold: 60,
		ReplyDowngradeFactor:  0.5,
		FallbackTimeout:       20 * time.Second,
	}
}

// Pipeline runs the classification engine for one email: thread context,
// sender/direction resolution, the deterministic document and intent
// classifiers, and confidence arbitration with the AI fallback gate.
type Pipeline struct {
	config *PipelineConfig

	docClassifier    *DocumentClassifier
	intentClassifier *IntentClassifier
	senderClassifier *SenderClassifier

	fallback out.AIFallbackClassifier
	breaker  *gobreaker.CircuitBreaker

	log *logger.Logger
}

// NewPipeline creates a classification pipeline. fallback may be nil, in
// which case the engine runs deterministic-only.
func NewPipeline(config *PipelineConfig, classifierConfig ClassifierConfig, tables *SenderTables, fallback out.AIFallbackClassifier, log *logger.Logger) *Pipeline {
	if config == nil {
		config = DefaultPipelineConfig()
	}
	if log == nil {
		log = logger.Default()
	}

	var breaker *gobreaker.CircuitBreaker
	if fallback != nil {
		breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ai-fallback",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker %s: %s -> %s", name, from, to)
			},
		})
	}

	return &Pipeline{
		config:           config,
		docClassifier:    NewDocumentClassifier(classifierConfig),
		intentClassifier: NewIntentClassifier(),
		senderClassifier: NewSenderClassifier(tables),
		fallback:         fallback,
		breaker:          breaker,
		log:              log,
	}
}

// Classify produces the ClassificationOutput for one email. It always
// returns a result: input defects degrade confidence, they never fail.
// Deterministic-only runs are fully reproducible for identical input.
func (p *Pipeline) Classify(ctx context.Context, input *domain.ClassificationInput) *domain.ClassificationOutput {
	thread := ExtractThreadContext(input.Subject)
	if input.IsReply {
		thread.IsResponse = true
	}

	senderCategory, direction := p.senderClassifier.Resolve(input)
	docResult := p.docClassifier.Classify(input, thread)
	intentResult := p.intentClassifier.Classify(input, thread)
	sentimentLabel, sentimentScore := ScoreSentiment(thread.CanonicalSubject, input.Body)

	output := &domain.ClassificationOutput{
		EmailID:         input.EmailID,
		DocumentType:    domain.DocUnknown,
		Method:          domain.MethodNone,
		EmailType:       intentResult.EmailType,
		EmailCategory:   intentResult.Category,
		EmailConfidence: domain.ClampConfidence(intentResult.Confidence),
		SenderCategory:  senderCategory,
		Direction:       direction,
		SentimentLabel:  sentimentLabel,
		SentimentScore:  sentimentScore,
		MatchedMarkers:  intentResult.Markers,
		ProcessedAt:     time.Now().UTC(),
	}

	if docResult.Best != nil {
		best := docResult.Best
		output.DocumentType = best.DocType
		output.DocumentConfidence = best.Confidence
		output.Method = best.Method
		if best.SubType != "" {
			sub := best.SubType
			output.DocumentSubType = &sub
		}
		for _, m := range docResult.Matches {
			output.MatchedMarkers = append(output.MatchedMarkers, m.Marker)
		}
	}

	// A reply inherits the original subject but may carry no document.
	if docResult.SubjectOnlyEvidence {
		output.NoDocumentEvidence = true
		output.DocumentConfidence *= p.config.ReplyDowngradeFactor
		output.MatchedMarkers = append(output.MatchedMarkers, "downgrade:reply-no-attachment")
	}

	p.arbitrate(ctx, input, output)

	output.DocumentConfidence = domain.ClampConfidence(output.DocumentConfidence)
	output.SuggestedState = SuggestWorkflowState(output.DocumentType, output.EmailType, output.Direction)
	output.ManualReview = output.DocumentConfidence < p.config.ManualReviewThreshold || output.NoDocumentEvidence

	return output
}

// arbitrate applies the AI fallback gate. The merge is asymmetric: a
// confident deterministic match is never overridden by a less-confident
// model guess.
func (p *Pipeline) arbitrate(ctx context.Context, input *domain.ClassificationInput, output *domain.ClassificationOutput) {
	if output.DocumentConfidence >= p.config.ManualReviewThreshold {
		return
	}
	if p.fallback == nil {
		return
	}

	aiResult, err := p.callFallback(ctx, input)
	if err != nil {
		output.FallbackReason = "fallback unavailable: " + err.Error()
		p.log.WithError(err).Warn("ai fallback skipped for email %s", input.EmailID)
		return
	}

	output.FallbackFired = true
	output.FallbackReason = aiResult.Reasoning

	if aiResult.DocumentType != domain.DocUnknown && aiResult.Confidence > output.DocumentConfidence {
		output.DocumentType = aiResult.DocumentType
		output.DocumentSubType = nil
		output.DocumentConfidence = aiResult.Confidence
		output.Method = domain.MethodAIFallback
		output.NoDocumentEvidence = false
		output.MatchedMarkers = append(output.MatchedMarkers, "ai:fallback-adopted")
		return
	}

	output.MatchedMarkers = append(output.MatchedMarkers, "ai:fallback-kept-deterministic")
}

func (p *Pipeline) callFallback(ctx context.Context, input *domain.ClassificationInput) (*out.AIFallbackResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.FallbackTimeout)
	defer cancel()

	result, err := p.breaker.Execute(func() (any, error) {
		return p.fallback.ClassifyDocument(ctx, input)
	})
	if err != nil {
		return nil, err
	}

	aiResult := result.(*out.AIFallbackResult)
	aiResult.Confidence = domain.ClampConfidence(aiResult.Confidence)
	return aiResult, nil
}
