package services

import (
	"regexp"
	"strconv"
	"strings"
)

// Fit labels the classifier may assign. Anything else degrades to
// CategoryNotFit.
const (
	CategoryBest    = "best"
	CategoryGood    = "good"
	CategoryAverage = "average"
	CategoryBad     = "bad"
	CategoryNotFit  = "not fit"
)

const maxScore = 100

var (
	categoryPattern = regexp.MustCompile(`(?i)Category:\s*(.+)`)
	scorePattern    = regexp.MustCompile(`(?i)Score:\s*(\d+)`)

	knownCategories = map[string]bool{
		CategoryBest:    true,
		CategoryGood:    true,
		CategoryAverage: true,
		CategoryBad:     true,
		CategoryNotFit:  true,
	}
)

// ParseClassification decodes the classifier's free-text reply into a
// category and a score. The reply is untrusted: missing or malformed
// fields fall back to the safe reject defaults ("not fit", 0) instead
// of failing, so one odd reply cannot abort a batch.
func ParseClassification(reply string) (string, int) {
	category := CategoryNotFit
	if m := categoryPattern.FindStringSubmatch(reply); m != nil {
		value := strings.ToLower(strings.TrimSpace(m[1]))
		if knownCategories[value] {
			category = value
		}
	}

	score := 0
	if m := scorePattern.FindStringSubmatch(reply); m != nil {
		if value, err := strconv.Atoi(m[1]); err == nil {
			score = value
		}
	}
	if score > maxScore {
		score = maxScore
	}

	return category, score
}
