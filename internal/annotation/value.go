package annotation

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Measurement is a value and unit as written on a dimension, a label, a tape
// or a ruler.
type Measurement struct {
	// Value is the number as it should be stored in a dimension annotation,
	// with a decimal point and no digit grouping.
	Value string `json:"value"`

	// Number is Value parsed.
	Number float64 `json:"number"`

	// Unit is the canonical unit name, or empty when none was recognized.
	Unit string `json:"unit,omitempty"`
}

// unitAliases maps written unit spellings to the unit stored on annotations.
var unitAliases = map[string]string{
	"mm":     "mm",
	"cm":     "cm",
	"m":      "m",
	"km":     "km",
	"in":     "in",
	"inch":   "in",
	"inches": "in",
	`"`:      "in",
	"ft":     "ft",
	"feet":   "ft",
	"foot":   "ft",
	"'":      "ft",
	"yd":     "yd",
	"°":      "°",
	"deg":    "°",
}

// primes folds typographic marks used for feet and inches. NFKC turns a
// double prime into two single primes, so both are listed.
var primes = strings.NewReplacer("′′", `"`, "″", `"`, "′", "'", "“", `"`, "”", `"`, "’", "'")

// measurementPattern finds the first numeral with an optional unit after it.
// The unit alternatives are ordered longest first.
var measurementPattern = regexp.MustCompile(
	`([-+]?\d+(?:[.,]\d+)*)\s*(inches|inch|feet|foot|deg|mm|cm|km|in|ft|yd|m|"|'|°)?`)

// ParseMeasurement extracts the first measurement from free text such as a
// dimension's typed value or OCR output. It reports false when the text holds
// no number.
//
// Full-width digits and letters are folded to ASCII first. Separators follow
// one rule everywhere:
//   - with both marks present the last one is the decimal point
//     ("1.200,5" and "1,200.5" read as 1200.5);
//   - a mark that repeats groups thousands ("1,200,000", "1.200.000");
//   - a single comma followed by exactly three digits groups thousands
//     ("1,200 mm" reads as 1200), any other single comma is a decimal comma
//     ("1,20 m" reads as 1.20);
//   - a single dot is always a decimal point.
//
// Groups after the first must have three digits; a numeral that breaks this
// is skipped. Units are only recognized directly after the number, optionally
// separated by spaces.
func ParseMeasurement(text string) (Measurement, bool) {
	text = primes.Replace(norm.NFKC.String(text))
	text = strings.ToLower(strings.TrimSpace(text))

	for _, m := range measurementPattern.FindAllStringSubmatchIndex(text, -1) {
		value, ok := decimal(text[m[2]:m[3]])
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}

		var unit string
		if m[4] >= 0 {
			raw := text[m[4]:m[5]]
			// A letter unit must not run into a longer word ("12 min")
			if isLetters(raw) && m[5] < len(text) && isLetter(text[m[5]]) {
				raw = ""
			}
			unit = unitAliases[raw]
		}
		return Measurement{Value: value, Number: n, Unit: unit}, true
	}
	return Measurement{}, false
}

// decimal rewrites a matched numeral with a decimal point and without
// grouping marks. A leading plus sign is dropped.
func decimal(raw string) (string, bool) {
	var sign string
	switch raw[0] {
	case '-':
		sign, raw = "-", raw[1:]
	case '+':
		raw = raw[1:]
	}

	whole, frac := raw, ""
	if i := strings.LastIndexAny(raw, ".,"); i >= 0 {
		sep := raw[i]
		other := byte(',')
		if sep == ',' {
			other = '.'
		}

		var ok bool
		switch {
		case strings.IndexByte(raw, other) >= 0:
			whole, frac = raw[:i], raw[i+1:]
			if strings.IndexByte(whole, sep) >= 0 {
				return "", false
			}
			whole, ok = ungroup(whole, other)
		case strings.Count(raw, string(sep)) > 1:
			whole, ok = ungroup(raw, sep)
		case sep == ',' && len(raw)-i-1 == 3:
			whole, ok = ungroup(raw, sep)
		default:
			whole, frac, ok = raw[:i], raw[i+1:], true
		}
		if !ok {
			return "", false
		}
	}

	if frac != "" {
		return sign + whole + "." + frac, true
	}
	return sign + whole, true
}

// ungroup removes thousands separators, checking that every group after the
// first has three digits.
func ungroup(s string, sep byte) (string, bool) {
	groups := strings.Split(s, string(sep))
	if len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return s != ""
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
