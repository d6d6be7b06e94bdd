package identity

const (
	// ManualConfidence is given to typed numbers that pass validation. It
	// carries no document evidence and stays below a well-evidenced image.
	ManualConfidence = 85

	// FailedConfidence marks a correctly shaped identifier whose checksum or
	// holder-type code is wrong.
	FailedConfidence = 30

	baseConfidence  = 60
	keywordWeight   = 10
	maxKeywordBonus = 30
	densityBonus    = 10
	maxConfidence   = 100
)

// ImageConfidence scores a structurally valid identifier found in OCR text.
// lineCount is the number of lines in the full text and threshold the
// document-specific line count above which the density bonus applies.
func ImageConfidence(keywordMatches, lineCount, threshold int) int {
	score := baseConfidence + min(keywordMatches*keywordWeight, maxKeywordBonus)
	if lineCount > threshold {
		score += densityBonus
	}
	return min(score, maxConfidence)
}

func manual(r Result) Result {
	if r.Valid {
		r.Confidence = ManualConfidence
	}
	return r
}
