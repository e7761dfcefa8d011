package form

import (
	"github.com/bitmark-inc/hormone-health/schema"
	"github.com/bitmark-inc/hormone-health/utils"
)

// BuildRequest derives the prediction request from the form. Numeric text that
// does not parse is left nil and sent as null.
func BuildRequest(r schema.IntakeRecord) schema.PredictionRequest {
	return schema.PredictionRequest{
		Name:          r.Name,
		Age:           intOrNil(r.Age),
		Height:        floatOrNil(r.Height),
		Weight:        floatOrNil(r.Weight),
		BloodGroup:    r.BloodGroup,
		CycleLength:   intOrNil(r.CycleLength),
		StressLevel:   r.StressLevel,
		SleepHours:    floatOrNil(r.SleepHours),
		ActivityLevel: r.ActivityLevel,
		Symptoms:      r.Symptoms.Selected(),
	}
}

// validate rejects a negative sleep duration, -Infinity included. Unparseable
// text passes.
func validate(r schema.IntakeRecord) error {
	if sleep, ok := utils.ParseLeadingNumber(r.SleepHours); ok && sleep < 0 {
		return &ValidationError{
			Field:   schema.FieldSleepHours,
			Message: MessageNegativeSleep,
		}
	}
	return nil
}

func intOrNil(s string) *int {
	if n, ok := utils.ParseLeadingInt(s); ok {
		return &n
	}
	return nil
}

func floatOrNil(s string) *float64 {
	if f, ok := utils.ParseLeadingFloat(s); ok {
		return &f
	}
	return nil
}
