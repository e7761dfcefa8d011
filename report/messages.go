package report

import "github.com/nicksnyder/go-i18n/v2/i18n"

var (
	msgTitle = &i18n.Message{
		ID:    "report.title",
		Other: "Health Analysis Report",
	}
	msgGreeting = &i18n.Message{
		ID:    "report.greeting",
		Other: "Hello {{.Name}}, here's your personalized hormonal health assessment",
	}
	msgConditionHeading = &i18n.Message{
		ID:    "report.condition_heading",
		Other: "Primary Condition Indicator",
	}
	msgConfidence = &i18n.Message{
		ID:    "report.confidence",
		Other: "Confidence Level",
	}
	msgRiskHeading = &i18n.Message{
		ID:    "report.risk_heading",
		Other: "Risk Assessment",
	}
	msgRiskFactors = &i18n.Message{
		ID:    "report.risk_factors",
		Other: "Identified Risk Factors",
	}
	msgRecommendation = &i18n.Message{
		ID:    "report.recommendation",
		Other: "Primary Recommendation",
	}
	msgNextSteps = &i18n.Message{
		ID:    "report.next_steps",
		Other: "Recommended Next Steps",
	}
	msgDisclaimer = &i18n.Message{
		ID:    "report.disclaimer",
		Other: "Medical Disclaimer: This assessment is for informational purposes only and should not replace professional medical advice. Please consult with a healthcare provider for proper diagnosis and treatment.",
	}

	msgRiskHigh = &i18n.Message{
		ID:    "risk.high",
		Other: "High likelihood - Consider professional consultation",
	}
	msgRiskModerate = &i18n.Message{
		ID:    "risk.moderate",
		Other: "Moderate likelihood - Continue monitoring symptoms",
	}
	msgRiskLowModerate = &i18n.Message{
		ID:    "risk.low_moderate",
		Other: "Low-moderate likelihood - Track patterns",
	}
	msgRiskLow = &i18n.Message{
		ID:    "risk.low",
		Other: "Low likelihood based on current symptoms",
	}
)
