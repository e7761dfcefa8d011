package schema

// ConditionDecorations maps the conditions known to the frontend to their badge.
// The prediction service may return other labels; those use FallbackDecoration.
var ConditionDecorations = map[string]Decoration{
	"PCOS": {
		Emoji:      "⚙️",
		Background: "#F8BBD0",
		Color:      "#880E4F",
	},
	"Hypothyroidism": {
		Emoji:      "🐌",
		Background: "#B3E5FC",
		Color:      "#01579B",
	},
	"PMDD": {
		Emoji:      "😔",
		Background: "#D1C4E9",
		Color:      "#4A148C",
	},
	"Perimenopause": {
		Emoji:      "🔥",
		Background: "#C8E6C9",
		Color:      "#1B5E20",
	},
}

var FallbackDecoration = Decoration{
	Emoji:      "🔍",
	Background: "#E0E0E0",
	Color:      "#424242",
}

// ConditionDecoration never fails; unknown conditions get the neutral badge
func ConditionDecoration(condition string) Decoration {
	if d, ok := ConditionDecorations[condition]; ok {
		return d
	}
	return FallbackDecoration
}
