// Package classification implements the multi-source email classification
// pipeline: deterministic document and intent classifiers, sender/direction
// attribution, confidence arbitration and the AI fallback gate.
package classification

import (
	"regexp"
	"strings"
)

// =============================================================================
// Thread Context Extractor
// =============================================================================

// ThreadContext is the normalized view of an email's threading signals.
// Pure data, produced once per email before any classifier runs.
type ThreadContext struct {
	CanonicalSubject string // reply/forward markers stripped, trimmed
	IsResponse       bool   // reply or forward
	BookingNumbers   []string
	ContainerNumbers []string
	BLNumbers        []string
}

var (
	// Reply/forward prefixes stack on real threads: "RE: FW: RE: subject".
	replyPrefixRe = regexp.MustCompile(`(?i)^\s*(re|fw|fwd|reply|forwarded)\s*[:\]]\s*`)

	// Carrier booking references are long digit runs (Maersk: 9 digits).
	bookingNumberRe = regexp.MustCompile(`\b\d{9,12}\b`)

	// ISO 6346 container numbers: 4 letters (owner+category) + 7 digits.
	containerNumberRe = regexp.MustCompile(`\b[A-Z]{4}\d{7}\b`)

	// BL numbers like MAEU123456789, MEDUIN123456.
	blNumberRe = regexp.MustCompile(`\b[A-Z]{4}[A-Z0-9]{6,12}\b`)
)

// ExtractThreadContext normalizes a subject line and pulls lightweight
// reference-number signals used by later stages. No I/O.
func ExtractThreadContext(subject string) *ThreadContext {
	canonical := strings.TrimSpace(subject)
	isResponse := false
	for {
		stripped := replyPrefixRe.ReplaceAllString(canonical, "")
		if stripped == canonical {
			break
		}
		isResponse = true
		canonical = strings.TrimSpace(stripped)
	}

	upper := strings.ToUpper(canonical)
	containers := containerNumberRe.FindAllString(upper, -1)

	// Container matches are a subset of the BL pattern; drop them from BLs.
	containerSet := make(map[string]bool, len(containers))
	for _, c := range containers {
		containerSet[c] = true
	}
	var bls []string
	for _, bl := range blNumberRe.FindAllString(upper, -1) {
		if !containerSet[bl] {
			bls = append(bls, bl)
		}
	}

	return &ThreadContext{
		CanonicalSubject: canonical,
		IsResponse:       isResponse,
		BookingNumbers:   bookingNumberRe.FindAllString(canonical, -1),
		ContainerNumbers: containers,
		BLNumbers:        bls,
	}
}
