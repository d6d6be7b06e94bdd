package identity

import "strings"

// MinKeywordMatches is how much keyword evidence the OCR text must carry
// before any identifier in it is considered.
const MinKeywordMatches = 2

var aadharKeywords = []string{
	"GOVERNMENT OF INDIA",
	"AADHAAR",
	"AADHAR",
	"UNIQUE IDENTIFICATION",
	"UIDAI",
	"UID",
	"भारत सरकार",
	"आधार",
	"भारतीय विशिष्ट पहचान प्राधिकरण",
}

var panKeywords = []string{
	"INCOME TAX DEPARTMENT",
	"GOVT OF INDIA",
	"GOVERNMENT OF INDIA",
	"PERMANENT ACCOUNT NUMBER",
	"PAN",
	"आयकर विभाग",
	"भारत सरकार",
}

// Keywords returns a copy of the keyword list for t.
func Keywords(t DocumentType) []string {
	var src []string
	switch t {
	case DocAadhar:
		src = aadharKeywords
	case DocPAN:
		src = panKeywords
	}
	return append([]string(nil), src...)
}

// CountKeywords counts how many keywords occur in text, ignoring case.
// Each keyword counts at most once.
func CountKeywords(text string, keywords []string) int {
	upper := strings.ToUpper(text)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(upper, strings.ToUpper(kw)) {
			n++
		}
	}
	return n
}

// Classify reports whether text plausibly belongs to a document of type t,
// along with the keyword count used to decide.
func Classify(t DocumentType, text string) (bool, int) {
	n := CountKeywords(text, Keywords(t))
	return n >= MinKeywordMatches, n
}
