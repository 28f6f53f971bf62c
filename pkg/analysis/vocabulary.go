package analysis

import "strings"

// ClassUnknown is the reserved id for text the parser could not match to any
// known lesion class.
const ClassUnknown = -1

// LabelUnknown is the label attached to unrecognised results.
const LabelUnknown = "Unknown"

// LesionClass is one entry of the fixed clinical vocabulary the parser
// matches against. The short Code is matched as a standalone word; Tokens
// are loose case-insensitive substrings. The class order below is the match
// priority.
type LesionClass struct {
	ID     int
	Code   string
	Name   string
	Tokens []string
}

// Vocabulary mirrors the classes of the deployed skin-cancer model.
var Vocabulary = []LesionClass{
	{ID: 2, Code: "MEL", Name: "Melanoma", Tokens: []string{"melanoma"}},
	{ID: 1, Code: "BCC", Name: "Basal cell carcinoma", Tokens: []string{"basal cell carcinoma"}},
	{ID: 4, Code: "SCC", Name: "Squamous cell carcinoma", Tokens: []string{"squamous cell carcinoma"}},
	{ID: 0, Code: "ACK", Name: "Actinic keratoses", Tokens: []string{"actinic keratoses", "actinic keratosis"}},
	{ID: 5, Code: "SEK", Name: "Seborrheic keratosis", Tokens: []string{"seborrheic keratosis", "seborrheic keratoses"}},
	{ID: 3, Code: "NEV", Name: "Nevus (Mole)", Tokens: []string{"nevus", "mole"}},
}

// MatchClass scans text for the first vocabulary entry whose code or token
// appears in it. The higher-risk classes are listed first so an ambiguous
// blob of text resolves toward the more cautious reading.
func MatchClass(text string) (LesionClass, bool) {
	lowered := strings.ToLower(text)
	for _, class := range Vocabulary {
		if containsCode(lowered, strings.ToLower(class.Code)) {
			return class, true
		}
		for _, token := range class.Tokens {
			if strings.Contains(lowered, token) {
				return class, true
			}
		}
	}
	return LesionClass{}, false
}

// containsCode reports whether the three-letter class code appears as a
// standalone word. A bare substring check would fire on "ack" inside "back"
// and misread text that merely mentions the body site.
func containsCode(text, code string) bool {
	for from := 0; ; {
		idx := strings.Index(text[from:], code)
		if idx < 0 {
			return false
		}
		idx += from
		end := idx + len(code)
		if (idx == 0 || !isWordByte(text[idx-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		from = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}
