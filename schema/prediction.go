package schema

// PredictionRequest is the body of POST /predict. Numeric fields are nil when
// the typed text does not parse as a number, which encodes as JSON null.
type PredictionRequest struct {
	Name          string   `json:"name"`
	Age           *int     `json:"age"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	BloodGroup    string   `json:"blood_group"`
	CycleLength   *int     `json:"cycle_length"`
	StressLevel   Level    `json:"stress_level"`
	SleepHours    *float64 `json:"sleep_hours"`
	ActivityLevel Level    `json:"activity_level"`
	Symptoms      []string `json:"symptoms"`
}

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// PredictionResult is the response of the prediction service
type PredictionResult struct {
	ConditionPredicted string          `json:"condition_predicted"`
	RiskScore          float64         `json:"risk_score"`
	Recommendation     string          `json:"recommendation"`
	ConfidenceLevel    ConfidenceLevel `json:"confidence_level,omitempty"`
	RiskFactors        []string        `json:"risk_factors,omitempty"`
	NextSteps          []string        `json:"next_steps,omitempty"`
}
