// Package verhoeff implements the Verhoeff checksum used by UIDAI for Aadhar
// numbers. It detects all single-digit errors and all adjacent transpositions.
package verhoeff

// d is the multiplication table of the dihedral group D5.
var d = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

// p is the position permutation table; row i applies to position i mod 8.
var p = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 7, 6, 0, 8},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

// inv holds the D5 inverse of each element.
var inv = [10]int{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}

// Valid reports whether digits carries a correct Verhoeff check digit in its
// last position. digits must consist of ASCII decimal digits only; callers
// are expected to have checked that.
func Valid(digits string) bool {
	return checksum(digits, 0) == 0
}

// CheckDigit returns the digit that, appended to payload, makes it Valid.
func CheckDigit(payload string) int {
	return inv[checksum(payload, 1)]
}

// Append returns payload followed by its check digit.
func Append(payload string) string {
	return payload + string(rune('0'+CheckDigit(payload)))
}

// checksum folds the digits right to left. offset shifts the position index,
// which is 1 when the check digit is not yet present.
func checksum(digits string, offset int) int {
	c := 0
	for i := 0; i < len(digits); i++ {
		v := int(digits[len(digits)-1-i] - '0')
		c = d[c][p[(i+offset)%8][v]]
	}
	return c
}
