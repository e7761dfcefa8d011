package api

import (
	"context"
	"html/template"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/hormone-health/external/predictor"
	"github.com/bitmark-inc/hormone-health/logmodule"
	"github.com/bitmark-inc/hormone-health/metrics"
	"github.com/bitmark-inc/hormone-health/store"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Form sessions
	sessions store.SessionStore

	// External services
	predictor predictor.Predictor

	// Metrics
	scope    tally.Scope
	reporter *metrics.Reporter

	templates *template.Template
}

// NewServer new instance of server. reporter may be nil, in which case
// /metrics is not served.
func NewServer(
	p predictor.Predictor,
	sessions store.SessionStore,
	scope tally.Scope,
	reporter *metrics.Reporter) *Server {
	if scope == nil {
		scope = tally.NoopScope
	}

	s := &Server{
		sessions:  sessions,
		predictor: p,
		scope:     scope,
		reporter:  reporter,
		templates: loadTemplates(),
	}
	s.server = &http.Server{
		Handler: s.setupRouter(),
	}

	return s
}

// Run to run the server. It returns http.ErrServerClosed once Shutdown has
// been called, even if that happened before Run.
func (s *Server) Run(addr string) error {
	s.server.Addr = addr
	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorf("panic recovered: %v", recovered)
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	}))
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.SetHTMLTemplate(s.templates)

	pageRoute := r.Group("/")
	pageRoute.Use(logmodule.Ginrus("Page"))
	{
		pageRoute.GET("", s.newFormPage)
		pageRoute.GET("/form/:sessionID", s.formPage)
		pageRoute.POST("/form/:sessionID", s.submitFormPage)
		pageRoute.GET("/form/:sessionID/report.pdf", s.downloadReportPage)
	}

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))
	apiRoute.GET("/symptoms", s.getSymptoms)

	sessionRoute := apiRoute.Group("/sessions")
	{
		sessionRoute.POST("", s.createSession)
		sessionRoute.GET("/:sessionID", s.getSession)
		sessionRoute.PATCH("/:sessionID", s.updateSessionFields)
		sessionRoute.DELETE("/:sessionID", s.deleteSession)
		sessionRoute.PUT("/:sessionID/symptoms/:symptom", s.answerSymptom)
		sessionRoute.POST("/:sessionID/submit", s.submitSession)
		sessionRoute.GET("/:sessionID/report", s.getReport)
		sessionRoute.GET("/:sessionID/report.pdf", s.downloadReport)
	}

	metricRoute := r.Group("/metrics")
	metricRoute.Use(logmodule.Ginrus("Metric"))
	{
		metricRoute.GET("", s.getMetrics)
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// SweepSessions evicts idle form sessions every interval until ctx is done
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sessions.Sweep(now)
			s.scope.Gauge("sessions.active").Update(float64(s.sessions.Len()))
		}
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "OK",
		"version":  viper.GetString("server.version"),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) getMetrics(c *gin.Context) {
	if s.reporter == nil {
		abortWithEncoding(c, http.StatusNotFound, errorMetricsDisabled)
		return
	}

	c.JSON(http.StatusOK, s.reporter.Summary())
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
