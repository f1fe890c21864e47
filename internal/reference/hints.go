package reference

// Hint is a canned distinguishing-feature question for a pair of chapters
// that are commonly confused with each other.
type Hint struct {
	Question string
	Context  string
}

// Keyed by the sorted chapter pair "aa-bb".
var chapterPairHints = map[string]Hint{
	"39-76": {
		Question: "Is the product made primarily of plastic or of aluminum?",
		Context:  "Plastic articles (chapter 39) and aluminum articles (chapter 76) carry different duty rates and standards requirements.",
	},
	"61-62": {
		Question: "Is the garment knitted/crocheted or woven?",
		Context:  "Knitted garments fall under chapter 61, woven under chapter 62; the duty rates differ.",
	},
	"73-76": {
		Question: "Is the article made of iron/steel or of aluminum?",
		Context:  "Iron and steel articles (chapter 73) and aluminum articles (chapter 76) are classified by base metal.",
	},
	"84-85": {
		Question: "Is the machine's primary function mechanical or electrical?",
		Context:  "Mechanical appliances belong to chapter 84, electrical machinery to chapter 85; approval routing differs.",
	},
	"84-90": {
		Question: "Is the device a general-purpose machine or a measuring/checking instrument?",
		Context:  "Measuring and checking instruments are classified in chapter 90, not with the machinery of chapter 84.",
	},
	"08-20": {
		Question: "Is the fruit fresh/dried or processed (cooked, preserved, juiced)?",
		Context:  "Fresh and dried fruit falls under chapter 8; any processing moves it to chapter 20 with different supervision.",
	},
	"85-94": {
		Question: "Is the item primarily a luminaire/furniture piece or an electrical apparatus?",
		Context:  "Lamps and light fittings are chapter 94; electrical lighting parts may fall under chapter 85.",
	},
}

// HintForChapters returns the canned hint for a chapter pair, order
// insensitive.
func HintForChapters(a, b string) (Hint, bool) {
	key := a + "-" + b
	if b < a {
		key = b + "-" + a
	}
	h, ok := chapterPairHints[key]
	return h, ok
}
