package classification

import (
	"strings"

	"shipflow_server/core/domain"
)

// =============================================================================
// Sentiment Scorer
// =============================================================================

// Operational tone markers, not general-purpose sentiment. Negative markers
// weigh double: an angry shipper matters more than a thankful one.
var positiveMarkers = []string{
	"thank you", "thanks", "appreciate", "well received", "great support",
	"approved", "confirmed", "good to go", "pleased",
}

var negativeMarkers = []string{
	"urgent", "escalat", "unacceptable", "disappointed", "complaint",
	"still waiting", "no response", "delay", "delayed", "damage", "damaged",
	"missing", "penalty", "detention", "demurrage", "very poor",
}

// ScoreSentiment returns a coarse tone label and a score in [-1, 1].
func ScoreSentiment(subject, body string) (domain.SentimentLabel, float64) {
	text := strings.ToLower(subject + " " + body)

	var score float64
	for _, m := range positiveMarkers {
		if strings.Contains(text, m) {
			score += 0.15
		}
	}
	for _, m := range negativeMarkers {
		if strings.Contains(text, m) {
			score -= 0.30
		}
	}

	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	switch {
	case score >= 0.15:
		return domain.SentimentPositive, score
	case score <= -0.15:
		return domain.SentimentNegative, score
	default:
		return domain.SentimentNeutral, score
	}
}
