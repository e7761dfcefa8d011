package schema

import "fmt"

type SymptomType string

const (
	Fatigue          SymptomType = "Fatigue"
	WeightGain       SymptomType = "Weight gain"
	IrregularPeriods SymptomType = "Irregular periods"
	Acne             SymptomType = "Acne"
	HairLoss         SymptomType = "Hair loss"
	MoodSwings       SymptomType = "Mood swings"
	LowLibido        SymptomType = "Low sex drive (libido)"
	HotFlashes       SymptomType = "Hot flashes"
	SleepDisturbance SymptomType = "Sleep disturbance"
)

// SymptomAnswer is the tri-state answer of a single symptom question
type SymptomAnswer string

const (
	Unanswered SymptomAnswer = ""
	Yes        SymptomAnswer = "yes"
	No         SymptomAnswer = "no"
)

var ErrUnknownSymptom = fmt.Errorf("unknown symptom")
var ErrInvalidAnswer = fmt.Errorf("invalid symptom answer")

// Decoration is the display metadata attached to a symptom or a condition
type Decoration struct {
	Emoji      string `json:"emoji"`
	Background string `json:"background"`
	Color      string `json:"color,omitempty"`
}

type Symptom struct {
	ID         SymptomType `json:"id"`
	Decoration Decoration  `json:"decoration"`
}

// Symptoms is the fixed question sequence. Its order is the order of the
// symptoms list sent to the prediction service.
var Symptoms = []Symptom{
	{Fatigue, Decoration{Emoji: "💤", Background: "#E3F2FD"}},
	{WeightGain, Decoration{Emoji: "⚖️", Background: "#FFF3E0"}},
	{IrregularPeriods, Decoration{Emoji: "🩸", Background: "#FCE4EC"}},
	{Acne, Decoration{Emoji: "😣", Background: "#F3E5F5"}},
	{HairLoss, Decoration{Emoji: "🧑‍🦲", Background: "#E8F5E9"}},
	{MoodSwings, Decoration{Emoji: "😡", Background: "#FFFDE7"}},
	{LowLibido, Decoration{Emoji: "💔", Background: "#E1F5FE"}},
	{HotFlashes, Decoration{Emoji: "🌡️", Background: "#FFEBEE"}},
	{SleepDisturbance, Decoration{Emoji: "🌙", Background: "#EDE7F6"}},
}

// SymptomFromID is a map which key is Symptom.ID and value is a object of Symptom
var SymptomFromID = func() map[SymptomType]Symptom {
	m := make(map[SymptomType]Symptom, len(Symptoms))
	for _, s := range Symptoms {
		m[s.ID] = s
	}
	return m
}()

// IsKnownSymptom reports whether id belongs to the fixed symptom sequence
func IsKnownSymptom(id SymptomType) bool {
	_, ok := SymptomFromID[id]
	return ok
}

// ParseSymptomAnswer accepts only a definite answer; a question cannot be reset
// to unanswered once it has been answered.
func ParseSymptomAnswer(s string) (SymptomAnswer, error) {
	switch a := SymptomAnswer(s); a {
	case Yes, No:
		return a, nil
	default:
		return Unanswered, ErrInvalidAnswer
	}
}

// SymptomAnswers holds one answer for every symptom in the fixed sequence
type SymptomAnswers map[SymptomType]SymptomAnswer

// NewSymptomAnswers returns a complete map with every symptom unanswered
func NewSymptomAnswers() SymptomAnswers {
	answers := make(SymptomAnswers, len(Symptoms))
	for _, s := range Symptoms {
		answers[s.ID] = Unanswered
	}
	return answers
}

// Selected returns the symptoms answered "yes" in fixed sequence order.
// The result is never nil so that it encodes as an empty JSON array.
func (a SymptomAnswers) Selected() []string {
	selected := make([]string, 0, len(Symptoms))
	for _, s := range Symptoms {
		if a[s.ID] == Yes {
			selected = append(selected, string(s.ID))
		}
	}
	return selected
}
