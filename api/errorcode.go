package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/hormone-health/form"
	"github.com/bitmark-inc/hormone-health/schema"
	"github.com/bitmark-inc/hormone-health/store"
	"github.com/bitmark-inc/hormone-health/utils"
)

var (
	errorMessageMap = map[int64]string{
		999: "internal server error",

		1010: "invalid parameters",
		1011: "cannot parse request",
		1012: "metrics are disabled",

		1100: store.ErrSessionNotFound.Error(),
		1101: schema.ErrUnknownField.Error(),
		1102: schema.ErrUnknownSymptom.Error(),
		1103: schema.ErrInvalidAnswer.Error(),

		1200: form.MessageNegativeSleep,
		1201: form.MessagePredictionFailed,

		1300: "no prediction to report",
		1301: msgReportDownloadFailed.Other,
	}

	// user facing messages, translated through the i18n bundle
	localizedMessages = map[int64]*i18n.Message{
		1200: msgSleepNegative,
		1201: msgPredictionFailed,
		1301: msgReportDownloadFailed,
	}

	errorInternalServer = errorJSON(999)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)
	errorMetricsDisabled    = errorJSON(1012)

	errorSessionNotFound = errorJSON(1100)
	errorUnknownField    = errorJSON(1101)
	errorUnknownSymptom  = errorJSON(1102)
	errorInvalidAnswer   = errorJSON(1103)

	errorSleepNegative    = errorJSON(1200)
	errorPredictionFailed = errorJSON(1201)

	errorNoPrediction       = errorJSON(1300)
	errorReportDownloadFail = errorJSON(1301)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// localized translates the message of a user facing error into the language
// the client accepts
func localized(c *gin.Context, e ErrorResponse) ErrorResponse {
	if msg, ok := localizedMessages[e.Code]; ok {
		e.Message = utils.Localize(localizer(c), msg, nil)
	}
	return e
}

func localizer(c *gin.Context) *i18n.Localizer {
	return utils.NewLocalizer(c.GetHeader("Accept-Language"))
}
