package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
)

// ErrLogoUnavailable marks a failed logo load. It is never fatal: the
// invoice is written without the logo instead.
var ErrLogoUnavailable = errors.New("logo asset unavailable")

// PDFWriter rasterizes invoice documents to PDF. An empty logoPath means
// no logo block.
type PDFWriter struct {
	logoPath string
}

func NewPDFWriter(logoPath string) *PDFWriter {
	return &PDFWriter{logoPath: logoPath}
}

type logoResult struct {
	data      []byte
	imageType string
	err       error
}

// loadLogo reads the logo asset off the main flow. The fetch is not
// cancellable; callers wait for the channel before composing the page.
func (p *PDFWriter) loadLogo() <-chan logoResult {
	ch := make(chan logoResult, 1)
	go func() {
		if p.logoPath == "" {
			ch <- logoResult{err: fmt.Errorf("no logo configured: %w", ErrLogoUnavailable)}
			return
		}
		data, err := os.ReadFile(p.logoPath)
		if err != nil {
			ch <- logoResult{err: fmt.Errorf("%v: %w", err, ErrLogoUnavailable)}
			return
		}

		imageType := "JPG"
		switch strings.ToLower(filepath.Ext(p.logoPath)) {
		case ".png":
			imageType = "PNG"
		case ".gif":
			imageType = "GIF"
		}
		ch <- logoResult{data: data, imageType: imageType}
	}()
	return ch
}

// Write rasterizes doc to w. Page geometry follows the shop's original
// invoice layout (A4, millimetres).
func (p *PDFWriter) Write(doc Document, w io.Writer) error {
	logoCh := p.loadLogo()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	if logo := <-logoCh; logo.err != nil {
		log.Warn().Err(logo.err).Msg("invoice: rendering without logo")
	} else {
		opts := fpdf.ImageOptions{ImageType: logo.imageType}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.data))
		pdf.ImageOptions("logo", 90, 10, 30, 30, false, opts, 0, "")
	}

	// Header block.
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 91, 51)
	pdf.SetXY(10, 45)
	pdf.CellFormat(190, 10, doc.ShopName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(190, 8, doc.Caption, "", 1, "C", false, 0, "")

	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, 65, 190, 65)

	// Metadata block, two fields per line.
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	y := 75.0
	for i := 0; i+1 < len(doc.Meta); i += 2 {
		left, right := doc.Meta[i], doc.Meta[i+1]
		pdf.Text(20, y, left.Label+": "+left.Value)
		pdf.Text(140, y, right.Label+": "+right.Value)
		y += 7
	}
	if len(doc.Meta)%2 == 1 {
		last := doc.Meta[len(doc.Meta)-1]
		lines := pdf.SplitText(last.Label+": "+last.Value, 100)
		for _, line := range lines {
			pdf.Text(20, y, line)
			y += 5
		}
		y += 2
	}
	y += 10

	// Line-item table with its column-header row.
	pdf.SetFillColor(240, 253, 244)
	pdf.Rect(20, y, 170, 10, "F")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(25, y+7, doc.Columns[0])
	pdf.Text(100, y+7, doc.Columns[1])
	pdf.Text(130, y+7, doc.Columns[2])
	pdf.Text(160, y+7, doc.Columns[3])
	y += 18

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range doc.Rows {
		pdf.Text(25, y, row.Product)
		pdf.Text(100, y, row.UnitPrice)
		pdf.Text(135, y, row.Quantity)
		pdf.Text(160, y, row.Subtotal)
		y += 8
	}

	pdf.Line(20, y, 190, y)
	y += 10

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(20, y-5)
	pdf.CellFormat(170, 10, doc.Total, "", 1, "R", false, 0, "")
	y += 10

	if doc.Notes != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.Text(20, y+5, "Note: "+doc.Notes)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(150, 150, 150)
	pdf.SetXY(10, 275)
	pdf.CellFormat(190, 8, doc.Footer, "", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("invoice: failed to write pdf: %w", err)
	}
	return nil
}
