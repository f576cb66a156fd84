package grammar

import (
	"fmt"
	"strconv"
)

// hourNames is indexed by hour % 12; index 0 means twelve (both 0 and 12 on
// a clock face read "twelve").
var hourNames = [12]string{
	"twelve", "one", "two", "three", "four", "five",
	"six", "seven", "eight", "nine", "ten", "eleven",
}

// TimeWords renders an (hour, minute) pair as spoken English, e.g.
// ("7", "30") → "seven thirty" and ("12", "0") → "twelve o’clock".
//
// The hour is reduced modulo 12 and mapped through the hour-name table. The
// minute picker only offers 0, 30, and 45; other values fall back to a
// zero-padded two-digit numeral so the output is still non-empty. Unparseable
// input is treated as zero.
func TimeWords(hour, minute string) string {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)

	hourWord := hourNames[((h%12)+12)%12]

	var minuteWord string
	switch m {
	case 0:
		minuteWord = "o’clock"
	case 30:
		minuteWord = "thirty"
	case 45:
		minuteWord = "forty five"
	default:
		minuteWord = fmt.Sprintf("%02d", m)
	}

	return hourWord + " " + minuteWord
}
