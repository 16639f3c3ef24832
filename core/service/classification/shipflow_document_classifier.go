package classification

import (
	"strings"

	"shipflow_server/core/domain"
)

// =============================================================================
// Deterministic Document Classifier
// =============================================================================

// DocumentMatch is one pattern-group hit with its provenance.
type DocumentMatch struct {
	DocType    domain.DocumentType
	SubType    domain.DocumentSubType // empty when the pattern has none
	Confidence float64
	Method     domain.ClassificationMethod
	Marker     string
}

// DocumentResult holds the winning match plus every group's hit for audit.
type DocumentResult struct {
	Best    *DocumentMatch
	Matches []DocumentMatch
	// SubjectOnlyEvidence is set when the winner came from the subject line
	// of a reply/forward that carried no attachment. Subject lines persist
	// across an entire reply chain while the underlying document does not,
	// so the arbitrator downgrades rather than trusts this match.
	SubjectOnlyEvidence bool
}

// ClassifierConfig tunes the deterministic document classifier.
type ClassifierConfig struct {
	// SubjectBeforeContent flips the precedence between extracted attachment
	// content and subject-line matches. The default keeps attachment
	// evidence above subject evidence.
	SubjectBeforeContent bool
}

// DocumentClassifier evaluates the ordered pattern groups against one email.
type DocumentClassifier struct {
	config ClassifierConfig
}

// NewDocumentClassifier creates a deterministic document classifier.
func NewDocumentClassifier(config ClassifierConfig) *DocumentClassifier {
	return &DocumentClassifier{config: config}
}

// Classify runs every pattern group and resolves conflicts by precedence:
// attachment content, attachment filename, subject, body. With
// SubjectBeforeContent set, the subject group is consulted before extracted
// content. Returns a result with Best == nil when nothing matched.
func (c *DocumentClassifier) Classify(input *domain.ClassificationInput, thread *ThreadContext) *DocumentResult {
	result := &DocumentResult{}

	subject := strings.ToLower(thread.CanonicalSubject)
	body := strings.ToLower(input.Body)
	content := strings.ToLower(input.AttachmentText)

	var contentMatch, filenameMatch, subjectMatch, bodyMatch *DocumentMatch

	if content != "" {
		contentMatch = matchGroup(contentPatterns, content, domain.MethodAttachmentContent)
	}
	for _, name := range input.AttachmentNames {
		if m := matchGroup(filenamePatterns, strings.ToLower(name), domain.MethodAttachmentName); m != nil {
			filenameMatch = m
			break
		}
	}
	subjectMatch = matchGroup(subjectPatterns, subject, domain.MethodSubject)
	bodyMatch = matchGroup(bodyPatterns, body, domain.MethodBody)

	// Precedence order. An attached document is stronger evidence than the
	// surrounding prose, so attachment groups outrank subject outranks body.
	var ordered []*DocumentMatch
	if c.config.SubjectBeforeContent {
		ordered = []*DocumentMatch{filenameMatch, subjectMatch, contentMatch, bodyMatch}
	} else {
		ordered = []*DocumentMatch{contentMatch, filenameMatch, subjectMatch, bodyMatch}
	}

	for _, m := range ordered {
		if m == nil {
			continue
		}
		result.Matches = append(result.Matches, *m)
		if result.Best == nil {
			result.Best = m
		}
	}

	if result.Best != nil &&
		result.Best.Method == domain.MethodSubject &&
		thread.IsResponse && !input.HasAttachments() {
		result.SubjectOnlyEvidence = true
	}

	return result
}

// matchGroup returns the first pattern hit in a group, or nil.
func matchGroup(patterns []documentPattern, text string, method domain.ClassificationMethod) *DocumentMatch {
	if text == "" {
		return nil
	}
	for i := range patterns {
		p := &patterns[i]
		if !patternMatches(p, text) {
			continue
		}
		return &DocumentMatch{
			DocType:    p.docType,
			SubType:    p.subType,
			Confidence: p.confidence,
			Method:     method,
			Marker:     p.marker,
		}
	}
	return nil
}

func patternMatches(p *documentPattern, text string) bool {
	if len(p.keywords) > 0 {
		matched := false
		for _, kw := range p.keywords {
			if strings.Contains(text, kw) {
				matched = true
				break
			}
		}
		if !matched && p.pattern == nil {
			return false
		}
		if matched {
			return true
		}
	}
	if p.pattern != nil {
		return p.pattern.MatchString(text)
	}
	return len(p.keywords) == 0
}
