package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"resume-portal/resume-backend/internal/resume"
)

// Section headings, in the order they are rendered
const (
	SectionSummary        = "Professional Summary"
	SectionExperience     = "Work Experience"
	SectionProjects       = "Projects"
	SectionEducation      = "Education"
	SectionSkills         = "Skills"
	SectionCertifications = "Certifications & Awards"
)

// PDFOptions configures resume layout
type PDFOptions struct {
	PageSize        string     `json:"page_size"`
	FontFamily      string     `json:"font_family"`
	NameFontSize    float64    `json:"name_font_size"`
	HeadingFontSize float64    `json:"heading_font_size"`
	FontSize        float64    `json:"font_size"`
	NameLineHeight  float64    `json:"name_line_height"`
	HeadingHeight   float64    `json:"heading_height"`
	LineHeight      float64    `json:"line_height"`
	Margins         PDFMargins `json:"margins"`
	Creator         string     `json:"creator"`
	Compress        bool       `json:"compress"`
}

// PDFMargins represents page margins
type PDFMargins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// DefaultPDFOptions returns the ATS layout: Helvetica, A4, 20mm margins
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:        "A4",
		FontFamily:      "Helvetica",
		NameFontSize:    16,
		HeadingFontSize: 11,
		FontSize:        10,
		NameLineHeight:  8,
		HeadingHeight:   6,
		LineHeight:      5,
		Margins: PDFMargins{
			Left:   20,
			Right:  20,
			Top:    20,
			Bottom: 20,
		},
		Creator:  "resume-backend",
		Compress: true,
	}
}

// vertical gaps in mm
const (
	ruleGap          = 5.0
	entryGap         = 3.0
	headingGapBefore = 2.0
	headingGapAfter  = 1.0
)

// Renderer turns resume records into PDF documents. It holds no per-document
// state, so a single Renderer may be shared between goroutines.
type Renderer struct {
	options PDFOptions
	logger  *zap.Logger
	layout  func(*PDFGenerator, *resume.Record) error
}

// NewRenderer creates a new resume renderer
func NewRenderer(options PDFOptions, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		options: options,
		logger:  logger,
		layout:  (*PDFGenerator).GenerateResume,
	}
}

// Render lays out the record and returns the serialized PDF.
// Any engine failure aborts the whole render and is returned as *RenderError.
func (r *Renderer) Render(rec *resume.Record) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("pdf engine panic: %v", p)
		}
		if err != nil {
			var renderErr *RenderError
			if !errors.As(err, &renderErr) {
				renderErr = &RenderError{Err: err}
			}
			r.logger.Error("Error in PDF generation", zap.Error(renderErr.Err))
			out, err = nil, renderErr
		}
	}()

	if rec == nil {
		rec = &resume.Record{}
	}

	g := NewPDFGenerator(r.options)
	if err := r.layout(g, rec); err != nil {
		return nil, err
	}
	return g.OutputToBytes()
}

// PDFGenerator owns one in-progress document and its cursor.
// It is created per render and must not be reused.
type PDFGenerator struct {
	pdf     *gofpdf.Fpdf
	options PDFOptions
	tr      func(string) string
}

// NewPDFGenerator creates a new PDF generator
func NewPDFGenerator(options PDFOptions) *PDFGenerator {
	pdf := gofpdf.New("P", "mm", options.PageSize, "")
	pdf.SetMargins(options.Margins.Left, options.Margins.Top, options.Margins.Right)
	pdf.SetAutoPageBreak(true, options.Margins.Bottom)
	pdf.SetCompression(options.Compress)
	if options.Creator != "" {
		pdf.SetCreator(options.Creator, true)
	}

	return &PDFGenerator{
		pdf:     pdf,
		options: options,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// GenerateResume writes every non-empty part of the record onto the page.
func (g *PDFGenerator) GenerateResume(rec *resume.Record) error {
	title := "Resume"
	if name := rec.FullName(); name != "" {
		title = name + " Resume"
	}
	g.pdf.SetTitle(title, true)
	g.pdf.AddPage()

	g.addNameHeader(rec)
	g.addContactLine(rec)
	g.addRule()

	steps := []func(*resume.Record){
		g.addSummary,
		g.addExperience,
		g.addProjects,
		g.addEducation,
		g.addSkills,
		g.addCredentials,
	}
	for _, step := range steps {
		if g.pdf.Err() {
			break
		}
		step(rec)
	}

	return g.pdf.Error()
}

// encode converts text for the core font. A rune outside cp1252 puts the
// engine into its error state instead of being replaced.
func (g *PDFGenerator) encode(text string) (string, bool) {
	for _, r := range text {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			g.pdf.SetErrorf("cannot encode %q in core font %s", r, g.options.FontFamily)
			return "", false
		}
	}
	return g.tr(text), true
}

// setFont switches font and reports whether the engine is still healthy
func (g *PDFGenerator) setFont(style string, size float64) bool {
	g.pdf.SetFont(g.options.FontFamily, style, size)
	return !g.pdf.Err()
}

// addNameHeader adds the centered uppercase name
func (g *PDFGenerator) addNameHeader(rec *resume.Record) {
	name, ok := g.encode(strings.ToUpper(rec.FullName()))
	if !ok || !g.setFont("B", g.options.NameFontSize) {
		return
	}
	g.pdf.CellFormat(0, g.options.NameLineHeight, name, "", 1, "C", false, 0, "")
}

// addContactLine adds "email | phone | linkedin | address"; skipped when all are empty
func (g *PDFGenerator) addContactLine(rec *resume.Record) {
	parts := rec.ContactParts()
	if len(parts) == 0 {
		return
	}
	contact, ok := g.encode(strings.Join(parts, " | "))
	if !ok || !g.setFont("", g.options.FontSize) {
		return
	}
	g.pdf.CellFormat(0, g.options.LineHeight, contact, "", 1, "C", false, 0, "")
}

// addRule draws a full-width horizontal line between gaps
func (g *PDFGenerator) addRule() {
	g.pdf.Ln(ruleGap)
	pageWidth, _ := g.pdf.GetPageSize()
	y := g.pdf.GetY()
	g.pdf.Line(g.options.Margins.Left, y, pageWidth-g.options.Margins.Right, y)
	g.pdf.Ln(ruleGap)
}

// sectionHeader adds a bold uppercase section title
func (g *PDFGenerator) sectionHeader(title string) {
	g.pdf.Ln(headingGapBefore)
	heading, ok := g.encode(strings.ToUpper(title))
	if !ok || !g.setFont("B", g.options.HeadingFontSize) {
		return
	}
	g.pdf.CellFormat(0, g.options.HeadingHeight, heading, "", 1, "L", false, 0, "")
	g.pdf.Ln(headingGapAfter)
}

func (g *PDFGenerator) boldLine(text string) {
	s, ok := g.encode(text)
	if !ok || !g.setFont("B", g.options.FontSize) {
		return
	}
	g.pdf.CellFormat(0, g.options.LineHeight, s, "", 1, "L", false, 0, "")
}

func (g *PDFGenerator) line(text string) {
	s, ok := g.encode(text)
	if !ok || !g.setFont("", g.options.FontSize) {
		return
	}
	g.pdf.CellFormat(0, g.options.LineHeight, s, "", 1, "L", false, 0, "")
}

// bodyText writes wrapped text; line and page breaks are left to gofpdf
func (g *PDFGenerator) bodyText(text string) {
	s, ok := g.encode(text)
	if !ok || !g.setFont("", g.options.FontSize) {
		return
	}
	g.pdf.MultiCell(0, g.options.LineHeight, s, "", "L", false)
}

func (g *PDFGenerator) addSummary(rec *resume.Record) {
	if rec.CareerObjective == "" {
		return
	}
	g.sectionHeader(SectionSummary)
	g.bodyText(rec.CareerObjective)
	g.pdf.Ln(entryGap)
}

func (g *PDFGenerator) addExperience(rec *resume.Record) {
	if len(rec.Experience) == 0 {
		return
	}
	g.sectionHeader(SectionExperience)
	for _, exp := range rec.Experience {
		g.boldLine(exp.Headline() + exp.DateRange())
		if exp.Description != "" {
			g.bodyText(exp.Description)
		}
		g.pdf.Ln(entryGap)
	}
}

func (g *PDFGenerator) addProjects(rec *resume.Record) {
	if len(rec.Projects) == 0 {
		return
	}
	g.sectionHeader(SectionProjects)
	for _, project := range rec.Projects {
		if project.Title != "" {
			g.boldLine(project.Title)
		}
		if project.Role != "" {
			g.line("Role: " + project.Role)
		}
		if project.Technologies != "" {
			g.line("Technologies: " + project.Technologies)
		}
		if project.Description != "" {
			g.bodyText(project.Description)
		}
		g.pdf.Ln(entryGap)
	}
}

func (g *PDFGenerator) addEducation(rec *resume.Record) {
	if len(rec.Education) == 0 {
		return
	}
	g.sectionHeader(SectionEducation)
	for _, edu := range rec.Education {
		g.boldLine(edu.Headline())
		if edu.Score != "" {
			g.line("Score: " + edu.Score)
		}
		g.pdf.Ln(entryGap)
	}
}

// addSkills flattens all skills into one comma separated paragraph for ATS parsers
func (g *PDFGenerator) addSkills(rec *resume.Record) {
	if len(rec.Skills) == 0 {
		return
	}
	g.sectionHeader(SectionSkills)
	g.bodyText(strings.Join(rec.Skills, ", "))
	g.pdf.Ln(entryGap)
}

func (g *PDFGenerator) addCredentials(rec *resume.Record) {
	items := rec.Credentials()
	if len(items) == 0 {
		return
	}
	g.sectionHeader(SectionCertifications)
	for _, item := range items {
		g.line("- " + item)
	}
	g.pdf.Ln(entryGap)
}

// Output writes the PDF to a writer
func (g *PDFGenerator) Output(w io.Writer) error {
	return g.pdf.Output(w)
}

// OutputToBytes returns the PDF as bytes
func (g *PDFGenerator) OutputToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.pdf.Output(&buf); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, errors.New("pdf engine produced an empty document")
	}
	return buf.Bytes(), nil
}
