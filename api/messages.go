package api

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/hormone-health/form"
)

var (
	msgSleepNegative = &i18n.Message{
		ID:    "form.sleep_negative",
		Other: form.MessageNegativeSleep,
	}
	msgPredictionFailed = &i18n.Message{
		ID:    "form.prediction_failed",
		Other: form.MessagePredictionFailed,
	}
	msgReportDownloadFailed = &i18n.Message{
		ID:    "report.download_failed",
		Other: "Report download failed. Please try again.",
	}
)
