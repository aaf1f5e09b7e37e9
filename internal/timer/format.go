package timer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MaxManualHours caps the hours field of a manual edit.
const MaxManualHours = 99

// FormatRemaining renders seconds as HH:MM:SS. Hours are not wrapped at 24
// and may use more than two digits.
func FormatRemaining(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseManualInput reads a right-aligned HHMMSS digit string: the last two
// digits are seconds, the two before are minutes and the rest hours.
// Non-digits are discarded. Minutes and seconds clamp to 59 and hours to
// MaxManualHours; empty input is zero.
func ParseManualInput(text string) int64 {
	var b strings.Builder
	for _, r := range text {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		return 0
	}

	take := func(n int) string {
		if len(digits) <= n {
			field := digits
			digits = ""
			return field
		}
		field := digits[len(digits)-n:]
		digits = digits[:len(digits)-n]
		return field
	}

	secs := fieldValue(take(2), 59)
	mins := fieldValue(take(2), 59)
	hours := int64(0)
	if digits != "" {
		if len(digits) > 2 {
			hours = MaxManualHours
		} else {
			hours = fieldValue(digits, MaxManualHours)
		}
	}
	return hours*3600 + mins*60 + secs
}

func fieldValue(s string, limit int64) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return min(v, limit)
}
