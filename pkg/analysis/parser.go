package analysis

import (
	"math"
	"regexp"
	"strconv"
)

const defaultConfidence = 0.5

var (
	percentPattern = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)
	decimalPattern = regexp.MustCompile(`\b0\.\d+\b`)
)

// Parse converts the remote service's free-form prediction text into a
// structured record. It is a total function: missing information degrades to
// defaults, never to an error, because the remote text format is not
// contractually guaranteed.
func Parse(rawText string) PredictionRecord {
	classID := ClassUnknown
	label := LabelUnknown
	if class, ok := MatchClass(rawText); ok {
		classID = class.ID
		label = class.Name
	}

	confidence := extractConfidence(rawText)

	return PredictionRecord{
		ClassID:    classID,
		Label:      label,
		Confidence: confidence,
		Percentage: math.Round(confidence * 100),
	}
}

func extractConfidence(text string) float64 {
	if m := percentPattern.FindStringSubmatch(text); m != nil {
		if value, err := strconv.ParseFloat(m[1], 64); err == nil {
			return clamp01(value / 100)
		}
	}
	if m := decimalPattern.FindString(text); m != "" {
		if value, err := strconv.ParseFloat(m, 64); err == nil {
			return clamp01(value)
		}
	}
	return defaultConfidence
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
