package schema

import "fmt"

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// form field names, identical to the JSON keys sent to the prediction service
const (
	FieldName          = "name"
	FieldAge           = "age"
	FieldHeight        = "height"
	FieldWeight        = "weight"
	FieldBloodGroup    = "blood_group"
	FieldCycleLength   = "cycle_length"
	FieldStressLevel   = "stress_level"
	FieldSleepHours    = "sleep_hours"
	FieldActivityLevel = "activity_level"
)

// Fields lists the scalar form fields in the order they are presented
var Fields = []string{
	FieldName,
	FieldAge,
	FieldHeight,
	FieldWeight,
	FieldBloodGroup,
	FieldCycleLength,
	FieldStressLevel,
	FieldSleepHours,
	FieldActivityLevel,
}

var ErrUnknownField = fmt.Errorf("unknown form field")

// IntakeRecord is the working state of one intake form. Numeric fields keep the
// raw text the user typed; they are coerced only when a request is built.
type IntakeRecord struct {
	Name          string         `json:"name"`
	Age           string         `json:"age"`
	Height        string         `json:"height"`
	Weight        string         `json:"weight"`
	BloodGroup    string         `json:"blood_group"`
	CycleLength   string         `json:"cycle_length"`
	StressLevel   Level          `json:"stress_level"`
	SleepHours    string         `json:"sleep_hours"`
	ActivityLevel Level          `json:"activity_level"`
	Symptoms      SymptomAnswers `json:"symptoms"`
}

// NewIntakeRecord returns an empty form with medium lifestyle levels and every
// symptom unanswered
func NewIntakeRecord() IntakeRecord {
	return IntakeRecord{
		StressLevel:   LevelMedium,
		ActivityLevel: LevelMedium,
		Symptoms:      NewSymptomAnswers(),
	}
}

// Set updates a single scalar field. Values are stored as given.
func (r *IntakeRecord) Set(field, value string) error {
	switch field {
	case FieldName:
		r.Name = value
	case FieldAge:
		r.Age = value
	case FieldHeight:
		r.Height = value
	case FieldWeight:
		r.Weight = value
	case FieldBloodGroup:
		r.BloodGroup = value
	case FieldCycleLength:
		r.CycleLength = value
	case FieldStressLevel:
		r.StressLevel = Level(value)
	case FieldSleepHours:
		r.SleepHours = value
	case FieldActivityLevel:
		r.ActivityLevel = Level(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Get returns the current text of a scalar field
func (r IntakeRecord) Get(field string) (string, error) {
	switch field {
	case FieldName:
		return r.Name, nil
	case FieldAge:
		return r.Age, nil
	case FieldHeight:
		return r.Height, nil
	case FieldWeight:
		return r.Weight, nil
	case FieldBloodGroup:
		return r.BloodGroup, nil
	case FieldCycleLength:
		return r.CycleLength, nil
	case FieldStressLevel:
		return string(r.StressLevel), nil
	case FieldSleepHours:
		return r.SleepHours, nil
	case FieldActivityLevel:
		return string(r.ActivityLevel), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

// Clone returns a deep copy so callers can read the record without holding the
// owner's lock
func (r IntakeRecord) Clone() IntakeRecord {
	c := r
	c.Symptoms = make(SymptomAnswers, len(r.Symptoms))
	for k, v := range r.Symptoms {
		c.Symptoms[k] = v
	}
	return c
}
