package identity

import "strings"

// Stage is a step of the OCR verification pipeline. Stages always run in
// declaration order; any of them may abort.
type Stage int

const (
	StageReceived Stage = iota
	StageClassified
	StageExtracted
	StageValidated
	StageScored
	StageDone
	StageAborted
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageClassified:
		return "classified"
	case StageExtracted:
		return "extracted"
	case StageValidated:
		return "validated"
	case StageScored:
		return "scored"
	case StageDone:
		return "done"
	case StageAborted:
		return "aborted"
	}
	return "unknown"
}

// profile holds the per-document pieces the pipeline is parameterised over.
type profile struct {
	doc           DocumentType
	keywords      []string
	lineThreshold int
	extract       func(lines []string) (Candidate, bool)
	validate      func(c Candidate) Result
}

// Trace runs the OCR pipeline for t and also reports its terminal stage,
// StageDone or StageAborted. Result.Reason tells which stage aborted.
func Trace(t DocumentType, fullText string) (Result, Stage) {
	switch t {
	case DocAadhar:
		return run(aadharProfile, fullText)
	case DocPAN:
		return run(panProfile, fullText)
	}
	return rejected(ReasonInputMalformed), StageAborted
}

func run(p profile, fullText string) (Result, Stage) {
	// received: an image without any text annotation is an ordinary input
	if strings.TrimSpace(fullText) == "" {
		return rejected(ReasonClassificationFailed), StageAborted
	}

	// classified
	matches := CountKeywords(fullText, p.keywords)
	if matches < MinKeywordMatches {
		return rejected(ReasonClassificationFailed), StageAborted
	}

	// extracted; a trailing newline does not count as a line
	lines := strings.Split(strings.TrimRight(fullText, "\n"), "\n")
	cand, ok := p.extract(lines)
	if !ok {
		return rejected(ReasonNoCandidate), StageAborted
	}

	// validated
	res := p.validate(cand)
	if res.Reason == ReasonInputMalformed {
		return rejected(ReasonInputMalformed), StageAborted
	}

	// scored
	if res.Valid {
		res.Confidence = ImageConfidence(matches, len(lines), p.lineThreshold)
	} else {
		res.Confidence = FailedConfidence
	}
	return res, StageDone
}

// FindCandidate returns the first identifier-shaped line for t without
// classifying or validating it. The image tools use it to check that a
// resized card is still legible.
func FindCandidate(t DocumentType, lines []string) (Candidate, bool) {
	switch t {
	case DocAadhar:
		return aadharProfile.extract(lines)
	case DocPAN:
		return panProfile.extract(lines)
	}
	return Candidate{}, false
}
