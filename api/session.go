package api

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/hormone-health/form"
	"github.com/bitmark-inc/hormone-health/schema"
)

type sessionResponse struct {
	ID     string                   `json:"id"`
	State  form.State               `json:"state"`
	Form   schema.IntakeRecord      `json:"form"`
	Error  string                   `json:"error,omitempty"`
	Result *schema.PredictionResult `json:"result,omitempty"`
}

func newSessionResponse(c *gin.Context, id string, snapshot form.Snapshot) sessionResponse {
	resp := sessionResponse{
		ID:     id,
		State:  snapshot.State,
		Form:   snapshot.Record,
		Result: snapshot.Result,
	}

	if snapshot.Err != nil {
		resp.Error = localized(c, submitErrorResponse(snapshot.Err)).Message
	}
	return resp
}

func (s *Server) getSymptoms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symptoms": schema.Symptoms})
}

func (s *Server) createSession(c *gin.Context) {
	ctrl := form.New(s.predictor, s.scope)
	id := s.sessions.Create(ctrl)

	c.JSON(http.StatusCreated, newSessionResponse(c, id, ctrl.Snapshot()))
}

// loadSession aborts the request when the session is unknown
func (s *Server) loadSession(c *gin.Context) (string, *form.Controller, bool) {
	id := c.Param("sessionID")
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		abortWithEncoding(c, http.StatusNotFound, errorSessionNotFound, err)
		return id, nil, false
	}
	return id, ctrl, true
}

func (s *Server) getSession(c *gin.Context) {
	id, ctrl, ok := s.loadSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(c, id, ctrl.Snapshot()))
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("sessionID")); err != nil {
		abortWithEncoding(c, http.StatusNotFound, errorSessionNotFound, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

// updateSessionFields applies a non-empty {"field": "value"} patch in form
// order. A patch naming any unknown field changes nothing.
func (s *Server) updateSessionFields(c *gin.Context) {
	id, ctrl, ok := s.loadSession(c)
	if !ok {
		return
	}

	var params map[string]string
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	if len(params) == 0 {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	for name := range params {
		if _, err := schema.NewIntakeRecord().Get(name); err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorUnknownField, err)
			return
		}
	}

	for _, name := range schema.Fields {
		if v, ok := params[name]; ok {
			if err := ctrl.SetField(name, v); err != nil {
				abortWithEncoding(c, http.StatusBadRequest, errorUnknownField, err)
				return
			}
		}
	}

	c.JSON(http.StatusOK, newSessionResponse(c, id, ctrl.Snapshot()))
}

func (s *Server) answerSymptom(c *gin.Context) {
	id, ctrl, ok := s.loadSession(c)
	if !ok {
		return
	}

	var params struct {
		Answer string `json:"answer"`
	}
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	answer, err := schema.ParseSymptomAnswer(params.Answer)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidAnswer, err)
		return
	}

	if err := ctrl.SetSymptom(schema.SymptomType(c.Param("symptom")), answer); err != nil {
		abortWithEncoding(c, http.StatusNotFound, errorUnknownSymptom, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(c, id, ctrl.Snapshot()))
}

func (s *Server) submitSession(c *gin.Context) {
	id, ctrl, ok := s.loadSession(c)
	if !ok {
		return
	}

	if err := ctrl.Submit(c.Request.Context()); err != nil {
		resp := localized(c, submitErrorResponse(err))
		if form.IsValidationError(err) {
			abortWithEncoding(c, http.StatusBadRequest, resp)
			return
		}

		captureException(c, err)
		abortWithEncoding(c, http.StatusBadGateway, resp, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(c, id, ctrl.Snapshot()))
}

func submitErrorResponse(err error) ErrorResponse {
	var v *form.ValidationError
	if errors.As(err, &v) {
		return errorSleepNegative
	}
	return errorPredictionFailed
}

func captureException(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
