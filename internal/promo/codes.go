package promo

import "strings"

// percentByCode is the fixed promotion table. Codes are matched
// case-insensitively.
var percentByCode = map[string]int64{
	"SAVE10": 10,
	"SAVE20": 20,
}

// Percent returns the discount percentage for code, or 0 when the code
// is unknown or blank.
func Percent(code string) int64 {
	return percentByCode[normalize(code)]
}

// Known reports whether code maps to an active promotion.
func Known(code string) bool {
	_, ok := percentByCode[normalize(code)]
	return ok
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
