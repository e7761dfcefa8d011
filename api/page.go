package api

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/hormone-health/form"
	"github.com/bitmark-inc/hormone-health/report"
	"github.com/bitmark-inc/hormone-health/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

const symptomFieldPrefix = "symptom."

var levels = []schema.Level{schema.LevelLow, schema.LevelMedium, schema.LevelHigh}

type symptomRow struct {
	schema.Symptom
	Field  string
	Answer schema.SymptomAnswer
}

type formPageData struct {
	SessionID string
	Record    schema.IntakeRecord
	Symptoms  []symptomRow
	Levels    []schema.Level
	Error     string
	Alert     string
	Report    *report.View
}

func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"title": strings.Title,
		"inc":   func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html"))
}

func (s *Server) newFormPage(c *gin.Context) {
	id := s.sessions.Create(form.New(s.predictor, s.scope))
	c.Redirect(http.StatusSeeOther, "/form/"+id)
}

func (s *Server) formPage(c *gin.Context) {
	id, ctrl, ok := s.loadPageSession(c)
	if !ok {
		return
	}

	s.renderFormPage(c, http.StatusOK, id, ctrl, "")
}

// submitFormPage applies every posted field and symptom answer, then submits
func (s *Server) submitFormPage(c *gin.Context) {
	id, ctrl, ok := s.loadPageSession(c)
	if !ok {
		return
	}

	for _, name := range schema.Fields {
		if v, posted := c.GetPostForm(name); posted {
			_ = ctrl.SetField(name, v)
		}
	}

	for _, symptom := range schema.Symptoms {
		v, posted := c.GetPostForm(symptomFieldPrefix + string(symptom.ID))
		if !posted {
			continue
		}
		if answer, err := schema.ParseSymptomAnswer(v); err == nil {
			_ = ctrl.SetSymptom(symptom.ID, answer)
		}
	}

	if err := ctrl.Submit(c.Request.Context()); err != nil && !form.IsValidationError(err) {
		captureException(c, err)
	}

	s.renderFormPage(c, http.StatusOK, id, ctrl, "")
}

func (s *Server) downloadReportPage(c *gin.Context) {
	id, ctrl, ok := s.loadPageSession(c)
	if !ok {
		return
	}

	view, ok := s.renderResult(c, ctrl)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/form/"+id)
		return
	}

	doc, err := s.export(c, view)
	if err != nil {
		alert := localized(c, errorReportDownloadFail).Message
		s.renderFormPage(c, http.StatusInternalServerError, id, ctrl, alert)
		return
	}

	writeDocument(c, doc)
}

func (s *Server) loadPageSession(c *gin.Context) (string, *form.Controller, bool) {
	id := c.Param("sessionID")
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		// an expired session starts over with an empty form
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
		return id, nil, false
	}
	return id, ctrl, true
}

func (s *Server) renderFormPage(c *gin.Context, code int, id string, ctrl *form.Controller, alert string) {
	snapshot := ctrl.Snapshot()

	data := formPageData{
		SessionID: id,
		Record:    snapshot.Record,
		Levels:    levels,
		Alert:     alert,
	}

	for _, symptom := range schema.Symptoms {
		data.Symptoms = append(data.Symptoms, symptomRow{
			Symptom: symptom,
			Field:   symptomFieldPrefix + string(symptom.ID),
			Answer:  snapshot.Record.Symptoms[symptom.ID],
		})
	}

	if snapshot.Err != nil {
		data.Error = localized(c, submitErrorResponse(snapshot.Err)).Message
	}

	if snapshot.Result != nil {
		view := s.presenter(c).Render(*snapshot.Result, snapshot.Record.Name)
		data.Report = &view
	}

	c.HTML(code, "form.html", data)
}
