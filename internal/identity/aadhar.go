package identity

import (
	"regexp"
	"strings"

	"docverify/internal/verhoeff"
)

// Aadhar numbers printed on cards are grouped 4-4-4.
var aadharGroupedRe = regexp.MustCompile(`\b[2-9][0-9]{3}\s+[0-9]{4}\s+[0-9]{4}\b`)

var aadharProfile = profile{
	doc:           DocAadhar,
	keywords:      aadharKeywords,
	lineThreshold: 8,
	extract:       extractAadhar,
	validate:      validateAadhar,
}

// Aadhar validates 12-digit UIDAI numbers.
type Aadhar struct{}

func (Aadhar) Type() DocumentType { return DocAadhar }

// FromText runs the full OCR pipeline over the text of a card image.
func (Aadhar) FromText(fullText string) Result {
	r, _ := run(aadharProfile, fullText)
	return r
}

// FromManual validates a number typed by the user.
func (Aadhar) FromManual(input string) Result {
	return manual(validateAadhar(Candidate{
		Original: input,
		Cleaned:  stripSeparators(input),
		Source:   SourceManual,
	}))
}

// NormalizeAadhar returns the 4-4-4 grouped form of a well-formed number and
// false when input is not 12 digits starting with 2-9. The checksum is not
// consulted.
func NormalizeAadhar(input string) (string, bool) {
	digits := stripSeparators(input)
	if !aadharShape(digits) {
		return "", false
	}
	return groupAadhar(digits), true
}

func aadharShape(digits string) bool {
	if len(digits) != 12 {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return false
		}
	}
	// UIDAI never issues numbers starting with 0 or 1.
	return digits[0] >= '2'
}

func groupAadhar(digits string) string {
	return digits[0:4] + " " + digits[4:8] + " " + digits[8:12]
}

func validateAadhar(c Candidate) Result {
	if !aadharShape(c.Cleaned) {
		return rejected(ReasonInputMalformed)
	}
	number := groupAadhar(c.Cleaned)
	if !verhoeff.Valid(c.Cleaned) {
		return Result{Number: number, Confidence: FailedConfidence, Reason: ReasonChecksumFailed}
	}
	return Result{Valid: true, Number: number, Reason: ReasonSuccess}
}

// extractAadhar picks the first line holding a grouped number, or a line that
// is exactly twelve digits once separators are removed.
func extractAadhar(lines []string) (Candidate, bool) {
	for _, line := range lines {
		if m := aadharGroupedRe.FindString(line); m != "" {
			return Candidate{Original: strings.TrimSpace(line), Cleaned: stripSeparators(m), Source: SourceImage}, true
		}
		if compact := stripSeparators(line); aadharShape(compact) {
			return Candidate{Original: strings.TrimSpace(line), Cleaned: compact, Source: SourceImage}, true
		}
	}
	return Candidate{}, false
}
