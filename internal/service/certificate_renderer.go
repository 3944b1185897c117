package service

import (
	"bytes"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/util"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

var errRenderInput = errors.New("certificate, user and course are required")

const fontFamily = "CertificateSans"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	defaultRegularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	defaultBoldFont []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	defaultItalicFont []byte
)

type fontSet struct {
	regular, bold, italic []byte
}

// CertificateRenderer lays out the downloadable certificate. Render depends only on its
// arguments: the PDF dates are pinned to the completion date and the catalog is sorted, so
// identical input yields identical bytes.
type CertificateRenderer struct {
	Issuer string
	fonts  fontSet
}

// NewCertificateRenderer uses the bundled DejaVu faces, which cover Latin, Greek and Cyrillic.
// Deployments issuing certificates in CJK scripts load a covering face with LoadFonts.
func NewCertificateRenderer(issuer string) *CertificateRenderer {
	return &CertificateRenderer{
		Issuer: issuer,
		fonts: fontSet{
			regular: defaultRegularFont,
			bold:    defaultBoldFont,
			italic:  defaultItalicFont,
		},
	}
}

// LoadFonts replaces the bundled faces with TrueType files. boldPath is optional; the regular
// face is reused for bold and italic text when it is empty.
func (r *CertificateRenderer) LoadFonts(regularPath, boldPath string) error {
	regular, err := os.ReadFile(regularPath)
	if err != nil {
		return fmt.Errorf("read certificate font: %w", err)
	}
	bold := regular
	if boldPath != "" {
		if bold, err = os.ReadFile(boldPath); err != nil {
			return fmt.Errorf("read certificate bold font: %w", err)
		}
	}
	r.fonts = fontSet{regular: regular, bold: bold, italic: regular}
	return nil
}

// printable keeps text inside the Basic Multilingual Plane; the PDF font tables address
// 16-bit character codes only.
func printable(s string) string {
	return strings.Map(func(c rune) rune {
		if c > 0xFFFF {
			return utf8.RuneError
		}
		return c
	}, s)
}

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{30, 58, 138}
	colorAccent  = rgb{202, 138, 4}
	colorText    = rgb{31, 41, 55}
	colorMuted   = rgb{107, 114, 128}
)

func (r *CertificateRenderer) Render(cert *model.Certificate, user *model.User, course *model.Course) ([]byte, error) {
	if cert == nil || user == nil || course == nil {
		return nil, errRenderInput
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(cert.CompletionDate)
	pdf.SetModificationDate(cert.CompletionDate)
	pdf.SetTitle("Certificate of Completion", true)
	pdf.SetAuthor(printable(r.Issuer), true)
	pdf.SetSubject(printable(course.Title), true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddUTF8FontFromBytes(fontFamily, "", r.fonts.regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", r.fonts.bold)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", r.fonts.italic)
	pdf.AddPage()

	w, h := pdf.GetPageSize()

	// double border
	pdf.SetDrawColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
	pdf.SetLineWidth(2)
	pdf.Rect(10, 10, w-20, h-20, "D")
	pdf.SetDrawColor(colorAccent.r, colorAccent.g, colorAccent.b)
	pdf.SetLineWidth(0.6)
	pdf.Rect(15, 15, w-30, h-30, "D")

	centered := func(y, lineHeight float64, style string, size float64, color rgb, text string) {
		pdf.SetFont(fontFamily, style, size)
		pdf.SetTextColor(color.r, color.g, color.b)
		pdf.SetXY(30, y)
		pdf.MultiCell(w-60, lineHeight, printable(text), "", "C", false)
	}

	centered(35, 16, "B", 34, colorPrimary, "Certificate of Completion")
	centered(60, 10, "", 15, colorMuted, "This certifies that")
	centered(74, 14, "B", 28, colorText, user.DisplayName())

	pdf.SetDrawColor(colorAccent.r, colorAccent.g, colorAccent.b)
	pdf.SetLineWidth(0.4)
	pdf.Line(w/2-60, 92, w/2+60, 92)

	centered(98, 10, "", 15, colorMuted, "has successfully completed the course")
	centered(110, 12, "B", 22, colorPrimary, course.Title)
	centered(138, 8, "", 13, colorText, "Completed on "+cert.CompletionDate.Format(util.CertificateDateFormat))

	if r.Issuer != "" {
		centered(150, 8, "I", 12, colorMuted, "Issued by "+r.Issuer)
	}

	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(colorMuted.r, colorMuted.g, colorMuted.b)
	pdf.SetXY(25, h-35)
	pdf.CellFormat(w-50, 5, "Certificate ID: "+cert.CertificateID, "", 1, "L", false, 0, "")
	pdf.SetX(25)
	pdf.CellFormat(w-50, 5, "Verify at: "+cert.VerificationURL, "", 1, "L", false, 0, cert.VerificationURL)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
