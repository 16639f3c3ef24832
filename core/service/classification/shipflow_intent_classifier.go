package classification

import (
	"strings"

	"shipflow_server/core/domain"
)

// =============================================================================
// Email-Intent Classifier
// =============================================================================

// IntentResult is the communicative-intent classification of one email,
// produced independently of any document classification.
type IntentResult struct {
	EmailType  domain.EmailType
	Category   domain.EmailCategory
	Confidence float64
	Markers    []string
}

type intentPattern struct {
	subjectKeywords []string
	bodyKeywords    []string
	emailType       domain.EmailType
	category        domain.EmailCategory
	confidence      float64
	marker          string
}

// Ordered most-specific first. Approval phrasing beats generic status words
// because "approved, please proceed" contains both.
var intentPatterns = []intentPattern{
	{
		subjectKeywords: []string{"approved", "approval"},
		bodyKeywords: []string{
			"approved", "approval granted", "please proceed", "good to go",
			"confirmed, go ahead", "ok to release",
		},
		emailType:  domain.EmailTypeApproval,
		category:   domain.EmailCategoryDocument,
		confidence: 82,
		marker:     "intent:approval",
	},
	{
		subjectKeywords: []string{"rejected", "not approved", "cancel"},
		bodyKeywords:    []string{"we cannot approve", "rejected", "do not proceed", "please cancel", "on hold"},
		emailType:       domain.EmailTypeRejection,
		category:        domain.EmailCategoryDocument,
		confidence:      78,
		marker:          "intent:rejection",
	},
	{
		subjectKeywords: []string{"urgent", "escalation", "reminder 2", "final reminder"},
		bodyKeywords:    []string{"escalate", "unacceptable", "still waiting", "no response received"},
		emailType:       domain.EmailTypeEscalation,
		category:        domain.EmailCategoryOperations,
		confidence:      74,
		marker:          "intent:escalation",
	},
	{
		subjectKeywords: []string{"booking request", "new booking", "rate request"},
		bodyKeywords:    []string{"please book", "kindly place the booking", "need a booking"},
		emailType:       domain.EmailTypeBookingRequest,
		category:        domain.EmailCategoryOperations,
		confidence:      78,
		marker:          "intent:booking-request",
	},
	{
		subjectKeywords: []string{"request", "required", "kindly share", "please share", "please send"},
		bodyKeywords: []string{
			"please share", "please send", "kindly provide", "request you to",
			"awaiting the documents", "need the following documents",
		},
		emailType:  domain.EmailTypeDocumentRequest,
		category:   domain.EmailCategoryDocument,
		confidence: 70,
		marker:     "intent:document-request",
	},
	{
		subjectKeywords: []string{"status", "update", "tracking", "departed", "sailed", "eta", "etd", "delayed", "rolled"},
		bodyKeywords: []string{
			"status update", "vessel has", "current status", "shipment is",
			"revised eta", "tracking details",
		},
		emailType:  domain.EmailTypeStatusUpdate,
		category:   domain.EmailCategoryOperations,
		confidence: 68,
		marker:     "intent:status-update",
	},
	{
		subjectKeywords: []string{"received", "acknowledged", "noted"},
		bodyKeywords:    []string{"well received", "acknowledged", "noted with thanks", "we have received"},
		emailType:       domain.EmailTypeAcknowledgment,
		category:        domain.EmailCategoryGeneral,
		confidence:      62,
		marker:          "intent:acknowledgment",
	},
}

// IntentClassifier determines the communicative intent of a message using
// subject/body pattern groups with a taxonomy distinct from document types.
type IntentClassifier struct{}

// NewIntentClassifier creates an intent classifier.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

// Classify always returns a result; unmatched emails fall back to the
// general intent with low confidence.
func (c *IntentClassifier) Classify(input *domain.ClassificationInput, thread *ThreadContext) *IntentResult {
	subject := strings.ToLower(thread.CanonicalSubject)
	body := strings.ToLower(input.Body)

	for i := range intentPatterns {
		p := &intentPatterns[i]
		if matchedKw := firstKeyword(p.subjectKeywords, subject); matchedKw != "" {
			return &IntentResult{
				EmailType:  p.emailType,
				Category:   p.category,
				Confidence: p.confidence,
				Markers:    []string{p.marker, "subject:" + matchedKw},
			}
		}
		if matchedKw := firstKeyword(p.bodyKeywords, body); matchedKw != "" {
			// Body-only evidence is a notch weaker than subject evidence.
			return &IntentResult{
				EmailType:  p.emailType,
				Category:   p.category,
				Confidence: p.confidence - 8,
				Markers:    []string{p.marker, "body:" + matchedKw},
			}
		}
	}

	return &IntentResult{
		EmailType:  domain.EmailTypeGeneral,
		Category:   domain.EmailCategoryGeneral,
		Confidence: 30,
		Markers:    []string{"intent:default"},
	}
}

func firstKeyword(keywords []string, text string) string {
	if text == "" {
		return ""
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return strings.TrimSpace(kw)
		}
	}
	return ""
}
