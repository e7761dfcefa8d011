package report

import (
	"math"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/hormone-health/schema"
	"github.com/bitmark-inc/hormone-health/utils"
)

const (
	colorGreen  = "#4CAF50"
	colorOrange = "#FF9800"
	colorGray   = "#757575"
	colorRed    = "#F44336"
)

// View is everything the result page and the exported document show
type View struct {
	UserName string

	Title    string
	Greeting string

	ConditionHeading string
	Condition        string
	Decoration       schema.Decoration

	ConfidenceHeading string
	ConfidenceLabel   string
	ConfidenceColor   string

	RiskHeading  string
	RiskScore    float64
	RiskPercent  int
	RiskMessage  string
	RiskBarColor string

	RiskFactorsHeading string
	RiskFactors        []string

	RecommendationHeading string
	Recommendation        string

	NextStepsHeading string
	NextSteps        []string

	Disclaimer string
}

// Presenter turns prediction results into views in one language
type Presenter struct {
	localizer *i18n.Localizer
}

func NewPresenter(langs ...string) *Presenter {
	return &Presenter{
		localizer: utils.NewLocalizer(langs...),
	}
}

// Render maps a prediction to its view. It accepts any condition label; the
// ones without a known decoration get the neutral badge.
func (p *Presenter) Render(result schema.PredictionResult, userName string) View {
	confidence := result.ConfidenceLevel
	if confidence == "" {
		confidence = schema.ConfidenceMedium
	}

	return View{
		UserName: userName,

		Title:    p.text(msgTitle, nil),
		Greeting: p.text(msgGreeting, map[string]interface{}{"Name": userName}),

		ConditionHeading: p.text(msgConditionHeading, nil),
		Condition:        result.ConditionPredicted,
		Decoration:       schema.ConditionDecoration(result.ConditionPredicted),

		ConfidenceHeading: p.text(msgConfidence, nil),
		ConfidenceLabel:   string(confidence),
		ConfidenceColor:   ConfidenceColor(confidence),

		RiskHeading:  p.text(msgRiskHeading, nil),
		RiskScore:    result.RiskScore,
		RiskPercent:  RiskPercent(result.RiskScore),
		RiskMessage:  p.text(riskMessage(result.RiskScore), nil),
		RiskBarColor: RiskBarColor(result.RiskScore),

		RiskFactorsHeading: p.text(msgRiskFactors, nil),
		RiskFactors:        result.RiskFactors,

		RecommendationHeading: p.text(msgRecommendation, nil),
		Recommendation:        result.Recommendation,

		NextStepsHeading: p.text(msgNextSteps, nil),
		NextSteps:        result.NextSteps,

		Disclaimer: p.text(msgDisclaimer, nil),
	}
}

func (p *Presenter) text(msg *i18n.Message, data map[string]interface{}) string {
	return utils.Localize(p.localizer, msg, data)
}

// RiskPercent is the score as a percentage rounded half up, 0.455 → 46
func RiskPercent(score float64) int {
	return int(math.Floor(score*100 + 0.5))
}

func riskMessage(score float64) *i18n.Message {
	switch {
	case score >= 0.8:
		return msgRiskHigh
	case score >= 0.6:
		return msgRiskModerate
	case score >= 0.4:
		return msgRiskLowModerate
	default:
		return msgRiskLow
	}
}

func RiskBarColor(score float64) string {
	switch {
	case score > 0.7:
		return colorRed
	case score > 0.4:
		return colorOrange
	default:
		return colorGreen
	}
}

func ConfidenceColor(level schema.ConfidenceLevel) string {
	switch schema.ConfidenceLevel(strings.ToLower(string(level))) {
	case schema.ConfidenceHigh:
		return colorGreen
	case schema.ConfidenceMedium:
		return colorOrange
	default:
		return colorGray
	}
}
