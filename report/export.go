package report

import (
	"bytes"
	"fmt"
	"image/png"
	"regexp"

	"github.com/go-pdf/fpdf"
)

const (
	reportLabel   = "hormone_health_report"
	pageWidthMM   = 210.0
	snapshotImage = "snapshot"
)

type Stage string

const (
	StageCapture Stage = "capture"
	StageEncode  Stage = "encode"
)

var whitespace = regexp.MustCompile(`\s+`)

// ExportError is returned when the view could not be captured or the document
// could not be encoded
type ExportError struct {
	Stage Stage
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("report export failed at %s: %s", e.Stage, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Document is an exported report ready to be downloaded
type Document struct {
	FileName string
	Content  []byte
}

// FileName turns "Jane  Doe" into "Jane_Doe_hormone_health_report.pdf"
func FileName(base string) string {
	return whitespace.ReplaceAllString(base, "_") + "_" + reportLabel + ".pdf"
}

// Export snapshots the view and embeds the image in a single page PDF whose
// page has the same aspect ratio as the snapshot
func Export(v View, fileNameBase string) (*Document, error) {
	img, err := Snapshot(v)
	if err != nil {
		return nil, &ExportError{Stage: StageCapture, Cause: err}
	}

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, &ExportError{Stage: StageCapture, Cause: err}
	}

	b := img.Bounds()
	pageHeight := float64(b.Dy()) * pageWidthMM / float64(b.Dx())

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageWidthMM, Ht: pageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(v.Title, true)
	pdf.SetCreator("hormone-health", true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(snapshotImage, opts, &raster)
	pdf.ImageOptions(snapshotImage, 0, 0, pageWidthMM, pageHeight, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, &ExportError{Stage: StageEncode, Cause: err}
	}

	return &Document{
		FileName: FileName(fileNameBase),
		Content:  out.Bytes(),
	}, nil
}
