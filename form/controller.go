package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/hormone-health/external/predictor"
	"github.com/bitmark-inc/hormone-health/schema"
)

var log = logrus.WithField("prefix", "form")

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{Idle, Submitting, Succeeded, Failed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown form state %q", text)
}

// Controller owns the intake form of one session and the result of its latest
// submission.
//
// Overlapping submissions are not serialised: each one clears the previous
// outcome when it starts and the one that completes last decides the final
// state.
type Controller struct {
	mu sync.RWMutex

	predictor predictor.Predictor
	scope     tally.Scope

	record schema.IntakeRecord
	state  State
	err    error
	result *schema.PredictionResult
}

// Snapshot is a consistent copy of the controller state
type Snapshot struct {
	Record schema.IntakeRecord
	State  State
	Err    error
	Result *schema.PredictionResult
}

// ErrorMessage is the inline text shown for the last failure, empty if none
func (s Snapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func New(p predictor.Predictor, scope tally.Scope) *Controller {
	if scope == nil {
		scope = tally.NoopScope
	}

	return &Controller{
		predictor: p,
		scope:     scope.SubScope("form"),
		record:    schema.NewIntakeRecord(),
		state:     Idle,
	}
}

// SetField updates one scalar field; values are checked only on submit
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.record.Set(name, value)
}

// SetSymptom records a yes/no answer for one of the fixed symptoms
func (c *Controller) SetSymptom(symptom schema.SymptomType, answer schema.SymptomAnswer) error {
	if !schema.IsKnownSymptom(symptom) {
		return schema.ErrUnknownSymptom
	}

	if answer != schema.Yes && answer != schema.No {
		return schema.ErrInvalidAnswer
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.record.Symptoms[symptom] = answer
	return nil
}

// Submit validates the form, sends it to the prediction service and stores the
// outcome. The returned error is either a *ValidationError or a
// *SubmissionError and is also kept as the controller's error state.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	c.err = nil
	c.result = nil
	c.state = Submitting
	record := c.record.Clone()
	c.mu.Unlock()

	c.scope.Counter("submit").Inc(1)

	if err := validate(record); err != nil {
		c.scope.Counter("submit.invalid").Inc(1)
		return c.fail(err)
	}

	req := BuildRequest(record)

	sw := c.scope.Timer("predict.latency").Start()
	result, err := c.predictor.Predict(ctx, req)
	sw.Stop()
	if err != nil {
		log.WithError(err).Warn("prediction failed")
		c.scope.Counter("submit.failure").Inc(1)
		return c.fail(&SubmissionError{Cause: err})
	}

	c.mu.Lock()
	c.result = result
	c.err = nil
	c.state = Succeeded
	c.mu.Unlock()

	c.scope.Counter("submit.success").Inc(1)
	log.WithField("condition", result.ConditionPredicted).Debug("prediction received")
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.result = nil
	c.err = err
	c.state = Failed
	return err
}

// Snapshot returns a copy of the current form, state and outcome
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Record: c.record.Clone(),
		State:  c.state,
		Err:    c.err,
		Result: c.result,
	}
}

// Result is the latest successful prediction, nil when there is none
func (c *Controller) Result() *schema.PredictionResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.result
}

// IsValidationError reports whether err was raised before any request was sent
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
