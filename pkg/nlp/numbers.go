package nlp

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numericPattern   = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)
	separatedPattern = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// NumberExtractor turns spoken or written numbers into values: "1,250", "3.5",
// "twenty one", "two hundred and five", "a thousand", "minus four", "three point one four".
type NumberExtractor struct {
	numberWords map[string]float64
	scales      map[string]float64
}

func NewNumberExtractor() *NumberExtractor {
	return &NumberExtractor{
		numberWords: map[string]float64{
			"zero": 0,
			"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
			"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
			"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
			"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
			"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
			"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
		},
		scales: map[string]float64{
			"thousand": 1000,
			"million":  1000000,
			"billion":  1000000000,
		},
	}
}

// Parse returns the value of text and whether every word of it was understood.
func (ne *NumberExtractor) Parse(text string) (float64, bool) {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return 0, false
	}

	if numericPattern.MatchString(text) || separatedPattern.MatchString(text) {
		value, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
		if err == nil && finite(value) {
			return value, true
		}
	}

	value, ok := ne.parseWords(text)
	if !ok || !finite(value) {
		return 0, false
	}
	return value, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// follows reports whether a unit of val may come right after the unit prev with no
// scale word between them, as in "twenty one". A negative prev means no unit yet.
func follows(prev, val float64) bool {
	if prev < 0 {
		return true
	}
	return prev >= 20 && prev < 100 && math.Mod(prev, 10) == 0 && val < 10
}

func (ne *NumberExtractor) parseWords(text string) (float64, bool) {
	words := strings.Fields(strings.ReplaceAll(text, "-", " "))
	if len(words) == 0 {
		return 0, false
	}

	sign := 1.0
	if words[0] == "minus" || words[0] == "negative" {
		sign = -1
		words = words[1:]
	}

	total, current, prev := 0.0, 0.0, -1.0
	seen := false

	for i := 0; i < len(words); i++ {
		word := words[i]

		switch {
		case word == "and":
			if !seen {
				return 0, false
			}
		case word == "a" || word == "an":
			if i+1 >= len(words) || (words[i+1] != "hundred" && ne.scales[words[i+1]] == 0) {
				return 0, false
			}
			current = 1
		case word == "hundred":
			if current == 0 {
				current = 1
			}
			current *= 100
			prev = -1
			seen = true
		case word == "point":
			fraction, ok := ne.parseDigits(words[i+1:])
			if !ok {
				return 0, false
			}
			return sign * (total + current + fraction), true
		default:
			if scale, ok := ne.scales[word]; ok {
				if current == 0 {
					current = 1
				}
				total += current * scale
				current, prev = 0, -1
				seen = true
				continue
			}

			val, ok := ne.numberWords[word]
			if !ok && numericPattern.MatchString(word) {
				parsed, err := strconv.ParseFloat(word, 64)
				ok = err == nil && finite(parsed)
				val = parsed
			}
			if !ok || !follows(prev, val) {
				return 0, false
			}
			current += val
			prev = val
			seen = true
		}
	}

	if !seen {
		return 0, false
	}
	return sign * (total + current), true
}

func (ne *NumberExtractor) parseDigits(words []string) (float64, bool) {
	if len(words) == 0 {
		return 0, false
	}

	fraction, place := 0.0, 0.1
	for _, word := range words {
		digit, ok := ne.numberWords[word]
		if !ok || digit > 9 {
			return 0, false
		}
		fraction += digit * place
		place /= 10
	}
	return fraction, true
}

// Samples lists number words, useful to bias a speech recognizer's vocabulary.
func (ne *NumberExtractor) Samples() []string {
	return []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "twenty", "thirty", "forty", "fifty", "hundred",
		"thousand", "million", "point", "minus",
	}
}
