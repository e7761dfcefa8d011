package form

const (
	MessageNegativeSleep    = "Sleep hours cannot be negative."
	MessagePredictionFailed = "Prediction failed. Please check your backend or input."
)

// ValidationError is a local precondition failure; no request was sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmissionError covers every way the prediction call can fail. The user only
// ever sees the generic message; Cause is kept for logs and error reporting.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return MessagePredictionFailed
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}
