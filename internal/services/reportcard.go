package services

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/yungbote/braincell-backend/internal/logger"
)

const (
	cardWidth  = 900
	cardHeight = 620

	cardMarginX   = 48.0
	cardBarHeight = 22.0
	cardMaxRows   = 6
)

// ReportCardRenderer draws a gap report as a shareable PNG card.
type ReportCardRenderer struct {
	log       *logger.Logger
	titleFace font.Face
	bodyFace  font.Face
	smallFace font.Face
}

func NewReportCardRenderer(log *logger.Logger) (*ReportCardRenderer, error) {
	serviceLog := log.With("service", "ReportCardRenderer")

	fontPath := os.Getenv("REPORT_CARD_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("Env var REPORT_CARD_FONT is empty")
	}
	serviceLog.Info("Loading report card font", "font", fontPath)

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}

	newFace := func(size float64) font.Face {
		return truetype.NewFace(parsedFont, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}

	return &ReportCardRenderer{
		log:       serviceLog,
		titleFace: newFace(34),
		bodyFace:  newFace(20),
		smallFace: newFace(15),
	}, nil
}

// Render draws the card: header, overall progress bar, and the weakest and
// strongest concepts as horizontal mastery bars.
func (r *ReportCardRenderer) Render(report *GapReport) (bytes.Buffer, error) {
	var buf bytes.Buffer

	dc := gg.NewContext(cardWidth, cardHeight)

	dc.SetColor(color.NRGBA{R: 0x10, G: 0x14, B: 0x1E, A: 0xFF})
	dc.DrawRectangle(0, 0, cardWidth, cardHeight)
	dc.Fill()

	y := 72.0
	dc.SetFontFace(r.titleFace)
	dc.SetColor(color.White)
	dc.DrawString("Learning Report", cardMarginX, y)

	dc.SetFontFace(r.smallFace)
	dc.SetColor(color.NRGBA{R: 0x9A, G: 0xA4, B: 0xB5, A: 0xFF})
	subtitle := fmt.Sprintf("Student %s", report.StudentID)
	if report.Topic != "" {
		subtitle += fmt.Sprintf("  ·  %s", report.Topic)
	}
	y += 28
	dc.DrawString(subtitle, cardMarginX, y)

	y += 52
	dc.SetFontFace(r.bodyFace)
	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("Overall progress: %.1f%%", report.OverallProgress), cardMarginX, y)
	y += 16
	r.drawBar(dc, cardMarginX, y, cardWidth-2*cardMarginX, report.OverallProgress/100, progressColor(report.OverallProgress/100))

	y += 64
	y = r.drawSection(dc, y, "Needs review", report.Gaps)
	y = r.drawSection(dc, y, "Mastered", report.Strong)

	dc.SetFontFace(r.smallFace)
	dc.SetColor(color.NRGBA{R: 0x9A, G: 0xA4, B: 0xB5, A: 0xFF})
	footerY := float64(cardHeight) - 32
	if len(report.Recommendations) > 0 {
		dc.DrawString(truncateLine(report.Recommendations[0], 110), cardMarginX, footerY)
	}

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (r *ReportCardRenderer) drawSection(dc *gg.Context, y float64, title string, concepts []ConceptSummary) float64 {
	if len(concepts) == 0 {
		return y
	}
	if len(concepts) > cardMaxRows {
		concepts = concepts[:cardMaxRows]
	}

	dc.SetFontFace(r.bodyFace)
	dc.SetColor(color.White)
	dc.DrawString(title, cardMarginX, y)
	y += 14

	barWidth := float64(cardWidth) - 2*cardMarginX - 280
	for _, c := range concepts {
		y += 30
		dc.SetFontFace(r.smallFace)
		dc.SetColor(color.NRGBA{R: 0xD7, G: 0xDD, B: 0xE5, A: 0xFF})
		dc.DrawString(truncateLine(c.Name, 32), cardMarginX, y)

		r.drawBar(dc, cardMarginX+260, y-12, barWidth, c.Mastery, progressColor(c.Mastery))

		dc.SetColor(color.NRGBA{R: 0x9A, G: 0xA4, B: 0xB5, A: 0xFF})
		dc.DrawString(fmt.Sprintf("%.0f%%", c.Mastery*100), cardMarginX+260+barWidth+12, y)
	}
	return y + 46
}

func (r *ReportCardRenderer) drawBar(dc *gg.Context, x, y, width, fraction float64, fill color.Color) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	dc.SetColor(color.NRGBA{R: 0x2A, G: 0x31, B: 0x40, A: 0xFF})
	dc.DrawRoundedRectangle(x, y, width, cardBarHeight, cardBarHeight/2)
	dc.Fill()

	if fraction > 0 {
		dc.SetColor(fill)
		dc.DrawRoundedRectangle(x, y, width*fraction, cardBarHeight, cardBarHeight/2)
		dc.Fill()
	}
}

func progressColor(fraction float64) color.Color {
	switch {
	case fraction < 0.4:
		return color.NRGBA{R: 0xE5, G: 0x55, B: 0x4F, A: 0xFF}
	case fraction < 0.7:
		return color.NRGBA{R: 0xE8, G: 0xB4, B: 0x3C, A: 0xFF}
	default:
		return color.NRGBA{R: 0x3D, G: 0xC0, B: 0x7C, A: 0xFF}
	}
}

func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
