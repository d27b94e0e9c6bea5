package scanner

func IsDigit[T byte | rune](b T) bool {
	return b >= '0' && b <= '9'
}

func IsHex[T byte | rune](b T) bool {
	return IsDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func IsCtrl[T byte | rune](b T) bool {
	return b < 32
}

// IsSpace reports whether b is JSON whitespace other than a new line.
func IsSpace[T byte | rune](b T) bool {
	return b == ' ' || b == '\t' || b == '\r'
}
