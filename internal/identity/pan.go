package identity

import "strings"

// holderTypes maps the 4th character of a PAN to the kind of holder.
var holderTypes = map[byte]string{
	'P': "Individual",
	'C': "Company",
	'H': "Hindu Undivided Family (HUF)",
	'F': "Firm",
	'A': "Association of Persons (AOP)",
	'T': "Trust (AOP)",
	'B': "Body of Individuals (BOI)",
	'L': "Local Authority",
	'J': "Artificial Juridical Person",
	'G': "Government",
}

const UnknownHolder = "Unknown"

var panProfile = profile{
	doc:           DocPAN,
	keywords:      panKeywords,
	lineThreshold: 6,
	extract:       extractPAN,
	validate:      validatePAN,
}

// PAN validates Permanent Account Numbers (AAAAA9999A).
type PAN struct{}

func (PAN) Type() DocumentType { return DocPAN }

func (PAN) FromText(fullText string) Result {
	r, _ := run(panProfile, fullText)
	return r
}

func (PAN) FromManual(input string) Result {
	return manual(validatePAN(Candidate{
		Original: input,
		Cleaned:  cleanPAN(input),
		Source:   SourceManual,
	}))
}

// HolderType returns the holder category encoded in the 4th character of
// pan, or "Unknown" when pan is too short or the code is not recognised.
func HolderType(pan string) string {
	if len(pan) < 4 {
		return UnknownHolder
	}
	if t, ok := holderTypes[pan[3]]; ok {
		return t
	}
	return UnknownHolder
}

func cleanPAN(s string) string {
	return strings.ToUpper(stripSeparators(s))
}

// panShape checks LLLLLDDDDL on an already uppercased string.
func panShape(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < 5; i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	for i := 5; i < 9; i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return isLetter(s[9])
}

func validatePAN(c Candidate) Result {
	if !panShape(c.Cleaned) {
		return rejected(ReasonInputMalformed)
	}
	if _, ok := holderTypes[c.Cleaned[3]]; !ok {
		return Result{Number: c.Cleaned, Confidence: FailedConfidence, Reason: ReasonStructureInvalid}
	}
	return Result{Valid: true, Number: c.Cleaned, HolderType: HolderType(c.Cleaned), Reason: ReasonSuccess}
}

func extractPAN(lines []string) (Candidate, bool) {
	for _, line := range lines {
		if compact := cleanPAN(line); panShape(compact) {
			return Candidate{Original: strings.TrimSpace(line), Cleaned: compact, Source: SourceImage}, true
		}
	}
	return Candidate{}, false
}
