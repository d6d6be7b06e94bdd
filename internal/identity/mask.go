package identity

// Mask hides all but the last four alphanumeric characters of number,
// keeping separators. It is used wherever an identifier leaves the request:
// logs, receipts and QR codes.
func Mask(number string) string {
	b := []byte(number)
	visible := 0
	for i := len(b) - 1; i >= 0; i-- {
		c := b[i]
		if !isDigit(c) && !isLetter(c) && !(c >= 'a' && c <= 'z') {
			continue
		}
		if visible < 4 {
			visible++
			continue
		}
		b[i] = 'X'
	}
	return string(b)
}
