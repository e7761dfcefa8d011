package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/hormone-health/external/predictor/mocks"
	"github.com/bitmark-inc/hormone-health/metrics"
	"github.com/bitmark-inc/hormone-health/schema"
	"github.com/bitmark-inc/hormone-health/store"
	"github.com/bitmark-inc/hormone-health/utils"
)

var pcosResult = &schema.PredictionResult{
	ConditionPredicted: "PCOS",
	RiskScore:          0.85,
	Recommendation:     "See an endocrinologist. Focus on sleep and insulin balance.",
	ConfidenceLevel:    schema.ConfidenceHigh,
	NextSteps:          []string{"Book an endocrinology visit"},
}

func newTestServer(t *testing.T) (*Server, *mocks.MockPredictor, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	ctl := gomock.NewController(t)
	t.Cleanup(ctl.Finish)

	p := mocks.NewMockPredictor(ctl)
	s := NewServer(p, store.NewMemorySessionStore(0), tally.NoopScope, metrics.NewReporter())
	return s, p, s.server.Handler.(*gin.Engine)
}

func do(router *gin.Engine, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), v), "wrong json response: %s", w.Body.String())
}

func createSession(t *testing.T, router *gin.Engine) string {
	w := do(router, "POST", "/api/sessions", "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp sessionResponse
	decode(t, w, &resp)
	return resp.ID
}

func TestGetSymptoms(t *testing.T) {
	_, _, router := newTestServer(t)

	w := do(router, "GET", "/api/symptoms", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Symptoms []schema.Symptom `json:"symptoms"`
	}
	decode(t, w, &resp)
	assert.Equal(t, schema.Symptoms, resp.Symptoms)
}

func TestSessionLifecycle(t *testing.T) {
	_, p, router := newTestServer(t)
	id := createSession(t, router)

	w := do(router, "PATCH", "/api/sessions/"+id, `{"name":"Jane Doe","age":"29","cycle_length":"31","sleep_hours":"0","stress_level":"high"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, "PUT", "/api/sessions/"+id+"/symptoms/"+url.PathEscape("Low sex drive (libido)"), `{"answer":"yes"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(router, "PUT", "/api/sessions/"+id+"/symptoms/Fatigue", `{"answer":"yes"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var session sessionResponse
	decode(t, w, &session)
	assert.Equal(t, schema.Yes, session.Form.Symptoms[schema.LowLibido])
	assert.Equal(t, schema.LevelHigh, session.Form.StressLevel)

	p.EXPECT().Predict(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req schema.PredictionRequest) (*schema.PredictionResult, error) {
			assert.Equal(t, []string{"Fatigue", "Low sex drive (libido)"}, req.Symptoms)
			assert.Equal(t, 0.0, *req.SleepHours)
			return pcosResult, nil
		}).Times(1)

	w = do(router, "POST", "/api/sessions/"+id+"/submit", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decode(t, w, &resp)
	assert.Equal(t, "succeeded", resp["state"])
	assert.Equal(t, "PCOS", resp["result"].(map[string]interface{})["condition_predicted"])

	w = do(router, "GET", "/api/sessions/"+id+"/report", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var rep struct {
		Report struct {
			RiskPercent int
			RiskMessage string
			Condition   string
		} `json:"report"`
	}
	decode(t, w, &rep)
	assert.Equal(t, 85, rep.Report.RiskPercent)
	assert.Equal(t, "PCOS", rep.Report.Condition)
	assert.Equal(t, "High likelihood - Consider professional consultation", rep.Report.RiskMessage)

	w = do(router, "GET", "/api/sessions/"+id+"/report.pdf", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Jane_Doe_hormone_health_report.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = do(router, "DELETE", "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(router, "GET", "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitNegativeSleep(t *testing.T) {
	_, _, router := newTestServer(t)
	id := createSession(t, router)

	do(router, "PATCH", "/api/sessions/"+id, `{"sleep_hours":"-1"}`)
	w := do(router, "POST", "/api/sessions/"+id+"/submit", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, int64(1200), resp.Code)
	assert.Equal(t, "Sleep hours cannot be negative.", resp.Message)

	var session sessionResponse
	decode(t, do(router, "GET", "/api/sessions/"+id, ""), &session)
	assert.Equal(t, "Sleep hours cannot be negative.", session.Error)
	assert.Nil(t, session.Result)
}

func TestSubmitNegativeSleepLocalized(t *testing.T) {
	assert.Nil(t, utils.InitI18NBundle("../i18n"))

	_, _, router := newTestServer(t)
	id := createSession(t, router)

	do(router, "PATCH", "/api/sessions/"+id, `{"sleep_hours":"-1"}`)
	w := do(router, "POST", "/api/sessions/"+id+"/submit", "", "Accept-Language", "zh-TW")

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "睡眠時數不可為負數。", resp.Message)
}

func TestSubmitPredictionFailure(t *testing.T) {
	_, p, router := newTestServer(t)
	id := createSession(t, router)

	p.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused")).Times(1)

	w := do(router, "POST", "/api/sessions/"+id+"/submit", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, int64(1201), resp.Code)
	assert.Equal(t, "Prediction failed. Please check your backend or input.", resp.Message)

	var session sessionResponse
	decode(t, do(router, "GET", "/api/sessions/"+id, ""), &session)
	assert.Equal(t, "failed", session.State.String())
	assert.Nil(t, session.Result)

	w = do(router, "GET", "/api/sessions/"+id+"/report.pdf", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1300), resp.Code)
}

func TestSessionErrors(t *testing.T) {
	_, _, router := newTestServer(t)
	id := createSession(t, router)

	var resp ErrorResponse

	w := do(router, "GET", "/api/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1100), resp.Code)

	w = do(router, "PATCH", "/api/sessions/"+id, `{"name":"Jane","email":"jane@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1101), resp.Code)

	// a rejected patch changes nothing
	var session sessionResponse
	decode(t, do(router, "GET", "/api/sessions/"+id, ""), &session)
	assert.Equal(t, "", session.Form.Name)

	w = do(router, "PUT", "/api/sessions/"+id+"/symptoms/Headache", `{"answer":"yes"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1102), resp.Code)

	w = do(router, "PUT", "/api/sessions/"+id+"/symptoms/Acne", `{"answer":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1103), resp.Code)

	w = do(router, "GET", "/api/sessions/"+id+"/report", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1300), resp.Code)

	w = do(router, "PATCH", "/api/sessions/"+id, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1011), resp.Code)

	w = do(router, "PUT", "/api/sessions/"+id+"/symptoms/Acne", `"yes"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1011), resp.Code)

	w = do(router, "PATCH", "/api/sessions/"+id, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, int64(1010), resp.Code)
}

func TestPanicRecovered(t *testing.T) {
	_, _, router := newTestServer(t)
	router.GET("/api/broken", func(c *gin.Context) {
		panic("broken handler")
	})

	w := do(router, "GET", "/api/broken", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, int64(999), resp.Code)
}

func TestFormPages(t *testing.T) {
	_, p, router := newTestServer(t)

	w := do(router, "GET", "/", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/form/"))

	w = do(router, "GET", location, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hormonal Health Predictor")
	assert.Contains(t, w.Body.String(), "Sleep disturbance")

	p.EXPECT().Predict(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req schema.PredictionRequest) (*schema.PredictionResult, error) {
			assert.Equal(t, "Jane", req.Name)
			assert.Equal(t, []string{"Acne"}, req.Symptoms)
			assert.Equal(t, schema.LevelLow, req.ActivityLevel)
			return pcosResult, nil
		}).Times(1)

	posted := url.Values{
		"name":            {"Jane"},
		"age":             {"29"},
		"sleep_hours":     {"7"},
		"activity_level":  {"low"},
		"symptom.Acne":    {"yes"},
		"symptom.Fatigue": {"maybe"},
	}
	req := httptest.NewRequest("POST", location, strings.NewReader(posted.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Health Analysis Report")
	assert.Contains(t, w.Body.String(), "85%")
	assert.Contains(t, w.Body.String(), location+"/report.pdf")

	w = do(router, "GET", location+"/report.pdf", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Jane_hormone_health_report.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestFormPageNegativeSleep(t *testing.T) {
	_, _, router := newTestServer(t)

	location := do(router, "GET", "/", "").Header().Get("Location")

	req := httptest.NewRequest("POST", location, strings.NewReader("sleep_hours=-1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sleep hours cannot be negative.")
	assert.NotContains(t, w.Body.String(), "Health Analysis Report")
}

func TestExpiredFormPageStartsOver(t *testing.T) {
	_, _, router := newTestServer(t)

	w := do(router, "GET", "/form/expired", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestHealthzAndMetrics(t *testing.T) {
	s, _, router := newTestServer(t)
	createSession(t, router)

	w := do(router, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	decode(t, w, &health)
	assert.Equal(t, "OK", health["status"])
	assert.Equal(t, float64(1), health["sessions"])

	s.reporter.ReportCounter("form.submit", nil, 3)
	w = do(router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var summary metrics.Summary
	decode(t, w, &summary)
	assert.Equal(t, int64(3), summary.Counters["form.submit"])

	s.reporter = nil
	w = do(router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// a recommendation too long for the report canvas makes the export fail
var oversizedResult = &schema.PredictionResult{
	ConditionPredicted: "PCOS",
	RiskScore:          0.85,
	Recommendation:     strings.Repeat("sleep more ", 4000),
}

func TestDownloadReportExportFailure(t *testing.T) {
	s, p, router := newTestServer(t)
	id := createSession(t, router)

	do(router, "PATCH", "/api/sessions/"+id, `{"name":"Jane","sleep_hours":"7"}`)
	p.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(oversizedResult, nil).Times(1)
	assert.Equal(t, http.StatusOK, do(router, "POST", "/api/sessions/"+id+"/submit", "").Code)

	ctrl, err := s.sessions.Get(id)
	assert.Nil(t, err)
	before := ctrl.Snapshot()

	w := do(router, "GET", "/api/sessions/"+id+"/report.pdf", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, int64(1301), resp.Code)
	assert.Equal(t, "Report download failed. Please try again.", resp.Message)

	after := ctrl.Snapshot()
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Record, after.Record)
	assert.Nil(t, after.Err)
	assert.Equal(t, oversizedResult, after.Result)
}

func TestFormPageExportFailure(t *testing.T) {
	s, p, router := newTestServer(t)

	location := do(router, "GET", "/", "").Header().Get("Location")
	id := strings.TrimPrefix(location, "/form/")

	p.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(oversizedResult, nil).Times(1)
	req := httptest.NewRequest("POST", location, strings.NewReader("name=Jane&sleep_hours=7"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	ctrl, err := s.sessions.Get(id)
	assert.Nil(t, err)
	before := ctrl.Snapshot()

	w = do(router, "GET", location+"/report.pdf", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Report download failed. Please try again.")
	assert.Contains(t, w.Body.String(), "Health Analysis Report")
	assert.Empty(t, w.Header().Get("Content-Disposition"))

	after := ctrl.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, oversizedResult, after.Result)
}

func TestShutdownBeforeRun(t *testing.T) {
	s, _, _ := newTestServer(t)

	assert.Nil(t, s.Shutdown(context.Background()))
	assert.Equal(t, http.ErrServerClosed, s.Run("127.0.0.1:0"))
}
