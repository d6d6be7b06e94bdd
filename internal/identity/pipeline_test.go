package identity

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aadharCard = `भारत सरकार
GOVERNMENT OF INDIA
Kudal Gaurav
जन्म तिथि/DOB: 05/12/1989
MALE
5245 5210 8456
मेरा आधार, मेरी पहचान`

const panCard = `आयकर विभाग
INCOME TAX DEPARTMENT
SHEKH ATAUL
SHEKH MUJAFFAR ALI
03/02/1998
Permanent Account Number
BWPPA3202G
Signature
GOVT. OF INDIA`

func TestAadharFromText(t *testing.T) {
	// भारत सरकार, GOVERNMENT OF INDIA, आधार -> 3 matches, 7 lines.
	r, stage := Trace(DocAadhar, aadharCard)
	require.Equal(t, StageDone, stage)
	require.Equal(t, Result{Valid: true, Number: "5245 5210 8456", Confidence: 90, Reason: ReasonSuccess}, r)
	require.Equal(t, r, Aadhar{}.FromText(aadharCard))
}

func TestAadharFromTextDensityBonus(t *testing.T) {
	text := aadharCard + "\nAddress:\nS/O Someone\nPune 411001"
	r := Aadhar{}.FromText(text)
	require.True(t, r.Valid)
	require.Equal(t, 100, r.Confidence)
}

func TestLineThresholdCountsPrintedLinesOnly(t *testing.T) {
	// Eight printed lines sit on the threshold, not above it, with or without
	// the newline OCR engines append.
	eight := aadharCard + "\nAddress:"
	for _, text := range []string{eight, eight + "\n", eight + "\n\n"} {
		r := Aadhar{}.FromText(text)
		require.True(t, r.Valid)
		assert.Equal(t, 90, r.Confidence, "%q", text)
	}
	assert.Equal(t, 100, Aadhar{}.FromText(eight+"\nPune").Confidence)
}

func TestAadharFromTextChecksumFailure(t *testing.T) {
	text := strings.Replace(aadharCard, "5245 5210 8456", "5245 5210 8457", 1)
	r, stage := Trace(DocAadhar, text)
	require.Equal(t, StageDone, stage)
	require.Equal(t, Result{Number: "5245 5210 8457", Confidence: 30, Reason: ReasonChecksumFailed}, r)
}

func TestAadharFromTextSingleKeywordAborts(t *testing.T) {
	// Only GOVERNMENT OF INDIA matches; the valid number must not be looked at.
	text := "GOVERNMENT OF INDIA\nSome Name\n2341 2341 2346"
	r, stage := Trace(DocAadhar, text)
	require.Equal(t, StageAborted, stage)
	require.Equal(t, Result{Reason: ReasonClassificationFailed}, r)
}

func TestAadharFromTextNoCandidate(t *testing.T) {
	text := "GOVERNMENT OF INDIA\nAADHAAR\nno number here"
	r, stage := Trace(DocAadhar, text)
	require.Equal(t, StageAborted, stage)
	require.Equal(t, Result{Reason: ReasonNoCandidate}, r)
}

func TestFromTextEmptyIsClassificationFailure(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n"} {
		r, stage := Trace(DocAadhar, text)
		assert.Equal(t, StageAborted, stage)
		assert.Equal(t, Result{Reason: ReasonClassificationFailed}, r)

		r, stage = Trace(DocPAN, text)
		assert.Equal(t, StageAborted, stage)
		assert.Equal(t, Result{Reason: ReasonClassificationFailed}, r)
	}
}

func TestPANFromText(t *testing.T) {
	// आयकर विभाग, INCOME TAX DEPARTMENT, PERMANENT ACCOUNT NUMBER -> 3
	// matches, 9 lines > 6.
	r, stage := Trace(DocPAN, panCard)
	require.Equal(t, StageDone, stage)
	require.Equal(t, Result{Valid: true, Number: "BWPPA3202G", Confidence: 100, HolderType: "Individual", Reason: ReasonSuccess}, r)
}

func TestPANFromTextShortCard(t *testing.T) {
	text := "INCOME TAX DEPARTMENT\nPermanent Account Number\nBWPPA3202G"
	// two matches, three lines: no density bonus
	r := PAN{}.FromText(text)
	require.Equal(t, Result{Valid: true, Number: "BWPPA3202G", Confidence: 80, HolderType: "Individual", Reason: ReasonSuccess}, r)
}

func TestPANFromTextStructureInvalid(t *testing.T) {
	text := strings.Replace(panCard, "BWPPA3202G", "BWPDA3202G", 1)
	r := PAN{}.FromText(text)
	require.Equal(t, Result{Number: "BWPDA3202G", Confidence: 30, Reason: ReasonStructureInvalid}, r)
}

func TestPANFromTextOnAadharCardAborts(t *testing.T) {
	r := PAN{}.FromText("UIDAI\nSome Name\nBWPPA3202G")
	require.Equal(t, Result{Reason: ReasonClassificationFailed}, r)
}

func TestTraceUnknownType(t *testing.T) {
	r, stage := Trace(DocumentType("passport"), panCard)
	require.Equal(t, StageAborted, stage)
	require.False(t, r.Valid)
}

func TestVerifiersAreSafeForConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, Aadhar{}.FromText(aadharCard).Valid)
			assert.True(t, PAN{}.FromText(panCard).Valid)
			assert.True(t, Aadhar{}.FromManual("2341 2341 2346").Valid)
		}()
	}
	wg.Wait()
}

func TestStageString(t *testing.T) {
	require.Equal(t, "received", StageReceived.String())
	require.Equal(t, "done", StageDone.String())
	require.Equal(t, "aborted", StageAborted.String())
	require.Equal(t, "unknown", Stage(42).String())
}

func TestFindCandidate(t *testing.T) {
	c, ok := FindCandidate(DocPAN, strings.Split(panCard, "\n"))
	require.True(t, ok)
	require.Equal(t, "BWPPA3202G", c.Cleaned)

	c, ok = FindCandidate(DocAadhar, []string{"no keywords", "2341 2341 2346"})
	require.True(t, ok)
	require.Equal(t, "234123412346", c.Cleaned)

	_, ok = FindCandidate(DocumentType("passport"), []string{"BWPPA3202G"})
	require.False(t, ok)
}
