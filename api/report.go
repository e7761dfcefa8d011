package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/hormone-health/form"
	"github.com/bitmark-inc/hormone-health/report"
)

func (s *Server) presenter(c *gin.Context) *report.Presenter {
	return report.NewPresenter(c.GetHeader("Accept-Language"))
}

// renderResult returns the view of the latest prediction, or false when the
// session has none
func (s *Server) renderResult(c *gin.Context, ctrl *form.Controller) (report.View, bool) {
	snapshot := ctrl.Snapshot()
	if snapshot.Result == nil {
		return report.View{}, false
	}

	return s.presenter(c).Render(*snapshot.Result, snapshot.Record.Name), true
}

func (s *Server) getReport(c *gin.Context) {
	_, ctrl, ok := s.loadSession(c)
	if !ok {
		return
	}

	view, ok := s.renderResult(c, ctrl)
	if !ok {
		abortWithEncoding(c, http.StatusNotFound, errorNoPrediction)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": view})
}

func (s *Server) downloadReport(c *gin.Context) {
	_, ctrl, ok := s.loadSession(c)
	if !ok {
		return
	}

	view, ok := s.renderResult(c, ctrl)
	if !ok {
		abortWithEncoding(c, http.StatusNotFound, errorNoPrediction)
		return
	}

	doc, err := s.export(c, view)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, localized(c, errorReportDownloadFail), err)
		return
	}

	writeDocument(c, doc)
}

// export produces the PDF of a view. A failure is reported and logged here;
// it never touches the form session.
func (s *Server) export(c *gin.Context, view report.View) (*report.Document, error) {
	doc, err := report.Export(view, view.UserName)
	if err != nil {
		log.WithError(err).Error("report export failed")
		s.scope.Counter("report.export.failure").Inc(1)
		captureException(c, err)
		return nil, err
	}

	s.scope.Counter("report.export.success").Inc(1)
	return doc, nil
}

func writeDocument(c *gin.Context, doc *report.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}
