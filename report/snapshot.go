package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	snapshotWidth = 600
	snapshotScale = 2
	padding       = 32
	lineHeight    = 18
	blockGap      = 14

	// tallest canvas before scaling; longer reports cannot be captured
	maxSnapshotHeight = 8192
)

var (
	errSnapshotTooLarge = fmt.Errorf("report too large to capture")

	face = basicfont.Face7x13

	colorPage    = mustHex("#FAFAFA")
	colorBorder  = mustHex("#E0E0E0")
	colorText    = mustHex("#212121")
	colorMuted   = mustHex("#616161")
	colorPrimary = mustHex("#AD1457")
	colorWhite   = mustHex("#FFFFFF")
	colorAdvice  = mustHex("#F1F8E9")
	colorAdviceB = mustHex("#4CAF50")
	colorWarning = mustHex("#FFF3E0")
	colorWarnB   = mustHex("#FFCC02")
	colorTrack   = mustHex("#E0E0E0")
)

// painter lays the view out top to bottom, recording draw operations so the
// canvas can be allocated at the final height
type painter struct {
	width int
	y     int
	ops   []func(dst *image.RGBA)
}

// Snapshot rasterises the view as the user sees it in the result panel. A view
// without a condition label is captured with an empty badge.
func Snapshot(v View) (image.Image, error) {
	p := &painter{width: snapshotWidth, y: padding}

	p.centered(v.Title, colorPrimary)
	p.paragraph(v.Greeting, colorMuted)
	p.gap()

	p.line(v.ConditionHeading, colorText)
	p.badge(strings.TrimSpace(v.Condition), hexOr(v.Decoration.Background, colorBorder), hexOr(v.Decoration.Color, colorText))
	p.chip(v.ConfidenceHeading+":", strings.Title(v.ConfidenceLabel), hexOr(v.ConfidenceColor, colorMuted))
	p.gap()

	p.line(v.RiskHeading, colorText)
	p.centered(fmt.Sprintf("%d%%", v.RiskPercent), colorPrimary)
	p.paragraph(v.RiskMessage, colorMuted)
	p.bar(v.RiskScore, hexOr(v.RiskBarColor, colorMuted))
	p.gap()

	if len(v.RiskFactors) > 0 {
		p.line(v.RiskFactorsHeading, colorText)
		p.paragraph(strings.Join(v.RiskFactors, " | "), colorMuted)
		p.gap()
	}

	p.line(v.RecommendationHeading, colorText)
	p.box(v.Recommendation, colorAdvice, colorAdviceB)
	p.gap()

	if len(v.NextSteps) > 0 {
		p.line(v.NextStepsHeading, colorText)
		for i, step := range v.NextSteps {
			p.paragraph(fmt.Sprintf("%d. %s", i+1, step), colorText)
		}
		p.gap()
	}

	p.box(v.Disclaimer, colorWarning, colorWarnB)

	height := p.y + padding
	if height > maxSnapshotHeight {
		return nil, errSnapshotTooLarge
	}

	canvas := image.NewRGBA(image.Rect(0, 0, p.width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(colorPage), image.Point{}, draw.Src)
	strokeRect(canvas, canvas.Bounds(), colorBorder)
	for _, op := range p.ops {
		op(canvas)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, p.width*snapshotScale, height*snapshotScale))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return scaled, nil
}

func (p *painter) gap() {
	p.y += blockGap
}

func (p *painter) textAt(s string, x, y int, c color.Color) {
	p.ops = append(p.ops, func(dst *image.RGBA) {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.P(x, y+face.Ascent),
		}
		d.DrawString(s)
	})
}

func (p *painter) rect(r image.Rectangle, c color.Color) {
	p.ops = append(p.ops, func(dst *image.RGBA) {
		draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
	})
}

func (p *painter) line(s string, c color.Color) {
	p.textAt(s, padding, p.y, c)
	p.y += lineHeight
}

func (p *painter) centered(s string, c color.Color) {
	w := font.MeasureString(face, s).Ceil()
	x := (p.width - w) / 2
	if x < padding {
		x = padding
	}
	p.textAt(s, x, p.y, c)
	p.y += lineHeight
}

func (p *painter) paragraph(s string, c color.Color) {
	for _, l := range wrap(s, p.columns(0)) {
		p.line(l, c)
	}
}

func (p *painter) badge(s string, bg, fg color.Color) {
	p.rect(image.Rect(padding, p.y, p.width-padding, p.y+lineHeight*2), bg)
	w := font.MeasureString(face, s).Ceil()
	p.textAt(s, (p.width-w)/2, p.y+lineHeight/2, fg)
	p.y += lineHeight*2 + 6
}

func (p *painter) chip(label, value string, bg color.Color) {
	p.textAt(label, padding, p.y, colorText)
	x := padding + font.MeasureString(face, label).Ceil() + 8
	w := font.MeasureString(face, value).Ceil() + 12
	p.rect(image.Rect(x, p.y-2, x+w, p.y+lineHeight-2), bg)
	p.textAt(value, x+6, p.y, colorWhite)
	p.y += lineHeight
}

func (p *painter) bar(score float64, c color.Color) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	left, right := padding*2, p.width-padding*2
	p.rect(image.Rect(left, p.y, right, p.y+8), colorTrack)
	filled := left + int(float64(right-left)*score)
	p.rect(image.Rect(left, p.y, filled, p.y+8), c)
	p.y += 8 + 6
}

func (p *painter) box(s string, bg, edge color.Color) {
	lines := wrap(s, p.columns(16))
	height := len(lines)*lineHeight + 12
	p.rect(image.Rect(padding, p.y, p.width-padding, p.y+height), bg)
	p.rect(image.Rect(padding, p.y, padding+4, p.y+height), edge)
	y := p.y + 6
	for _, l := range lines {
		p.textAt(l, padding+12, y, colorText)
		y += lineHeight
	}
	p.y += height
}

// columns is how many glyphs fit on a line after the given extra indent
func (p *painter) columns(indent int) int {
	return (p.width - 2*padding - indent) / face.Advance
}

// wrap breaks s on spaces into lines of at most n runes; longer words are split
func wrap(s string, n int) []string {
	if n <= 0 {
		return []string{s}
	}

	var lines []string
	var current []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > n {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:n]))
			w = w[n:]
		}

		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= n:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}

	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// parseHex reads #RRGGBB
func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func hexOr(s string, fallback color.RGBA) color.RGBA {
	if c, err := parseHex(s); err == nil {
		return c
	}
	return fallback
}

func mustHex(s string) color.RGBA {
	c, err := parseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
