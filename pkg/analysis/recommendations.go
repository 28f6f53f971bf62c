package analysis

// recommendationTable holds per-class guidance shown alongside a completed
// analysis.
var recommendationTable = map[string][]string{
	"MEL": {
		"URGENT: seek immediate medical attention",
		"Contact a dermatologist within 24 hours",
		"This type of lesion requires urgent evaluation",
	},
	"BCC": {
		"Schedule appointment with dermatologist soon",
		"This requires professional medical evaluation",
		"Treatment is very effective when caught early",
	},
	"SCC": {
		"Schedule dermatologist appointment promptly",
		"Professional evaluation needed",
		"Monitor for rapid growth or changes",
	},
	"ACK": {
		"Monitor for changes in size, color, or texture",
		"Use sun protection to prevent progression",
		"Consider dermatologist consultation",
	},
	"SEK": {
		"Generally benign but monitor for changes",
		"Routine skin check sufficient",
		"Follow-up if lesion changes significantly",
	},
	"NEV": {
		"Common benign moles, monitor regularly",
		"Use the ABCDE rule for monitoring changes",
		"Annual dermatologist check if many moles",
	},
}

var unknownRecommendations = []string{
	"Unknown lesion type detected",
	"Professional medical evaluation recommended",
	"Monitor for any changes",
}

// Recommendations returns guidance for a prediction, with a low-confidence
// addendum when the model was unsure.
func Recommendations(prediction PredictionRecord) []string {
	base := unknownRecommendations
	for _, class := range Vocabulary {
		if class.ID == prediction.ClassID {
			base = recommendationTable[class.Code]
			break
		}
	}

	out := make([]string, len(base))
	copy(out, base)

	if prediction.Confidence < 0.6 {
		out = append(out, "Low confidence prediction, professional review strongly recommended")
	}
	return out
}
