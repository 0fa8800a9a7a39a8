package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts "M:SS" or "H:MM:SS" (optionally wrapped in [] or ()) to whole seconds.
// Fractional seconds are truncated. Unparseable input yields 0.
func Parse(ts string) int {
	clean := strings.TrimSpace(strings.Trim(strings.TrimSpace(ts), "[]()"))
	if clean == "" {
		return 0
	}

	parts := strings.Split(clean, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		// Only the last field may carry a fraction ("0:05.5")
		if i == len(parts)-1 {
			if dot := strings.IndexByte(p, '.'); dot >= 0 {
				if !isDigits(p[dot+1:]) {
					return 0
				}
				p = p[:dot]
			}
		}
		if !isDigits(p) {
			return 0
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		values[i] = n
	}

	if len(values) == 3 {
		return values[0]*3600 + values[1]*60 + values[2]
	}
	return values[0]*60 + values[1]
}

// Format renders seconds as "M:SS". Minutes are not padded.
func Format(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
