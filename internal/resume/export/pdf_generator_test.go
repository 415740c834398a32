package export

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"resume-portal/resume-backend/internal/resume"
)

var (
	showTextOp = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj`)
	escapedRe  = regexp.MustCompile(`\\(.)`)
)

// testOptions disables stream compression so the content stream can be inspected.
func testOptions() PDFOptions {
	opts := DefaultPDFOptions()
	opts.Compress = false
	return opts
}

func renderText(t *testing.T, rec *resume.Record) []string {
	t.Helper()
	r := NewRenderer(testOptions(), zaptest.NewLogger(t))
	out, err := r.Render(rec)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	return shownText(out)
}

// shownText returns the strings drawn with Tj, in content order.
func shownText(pdf []byte) []string {
	var lines []string
	for _, m := range showTextOp.FindAllSubmatch(pdf, -1) {
		lines = append(lines, escapedRe.ReplaceAllString(string(m[1]), "$1"))
	}
	return lines
}

func indexOf(lines []string, s string) int {
	for i, l := range lines {
		if l == s {
			return i
		}
	}
	return -1
}

func normalized(t *testing.T, raw map[string]interface{}) *resume.Record {
	t.Helper()
	rec, _ := resume.Normalize(raw)
	return rec
}

func TestRenderMinimalRecord(t *testing.T) {
	r := NewRenderer(testOptions(), zaptest.NewLogger(t))
	out, err := r.Render(normalized(t, map[string]interface{}{
		"firstName": "Jane",
		"lastName":  "Doe",
	}))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%EOF")
	assert.Equal(t, []string{"JANE DOE"}, shownText(out))
}

func TestRenderCompressedOutputIsValidPDF(t *testing.T) {
	r := NewRenderer(DefaultPDFOptions(), zaptest.NewLogger(t))
	out, err := r.Render(&resume.Record{FirstName: "Jane"})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.NotEmpty(t, out)
}

func TestRenderNilRecord(t *testing.T) {
	r := NewRenderer(testOptions(), nil)
	out, err := r.Render(nil)

	require.NoError(t, err)
	assert.Empty(t, shownText(out))
}

func TestContactLine(t *testing.T) {
	t.Run("all fields in fixed order", func(t *testing.T) {
		lines := renderText(t, &resume.Record{
			FirstName: "Jane",
			LastName:  "Doe",
			Address:   "Pune",
			LinkedIn:  "linkedin.com/in/jane",
			Phone:     "555-0100",
			Email:     "jane@example.com",
		})
		assert.Equal(t, []string{
			"JANE DOE",
			"jane@example.com | 555-0100 | linkedin.com/in/jane | Pune",
		}, lines)
	})

	t.Run("only present fields joined", func(t *testing.T) {
		lines := renderText(t, &resume.Record{FirstName: "Jane", Phone: "555-0100", Address: "Pune"})
		assert.Equal(t, []string{"JANE", "555-0100 | Pune"}, lines)
	})

	t.Run("omitted when empty", func(t *testing.T) {
		lines := renderText(t, &resume.Record{FirstName: "Jane", LastName: "Doe", CareerObjective: "Build things."})
		for _, l := range lines {
			assert.NotContains(t, l, "|")
		}
		assert.Equal(t, []string{"JANE DOE", "PROFESSIONAL SUMMARY", "Build things."}, lines)
	})
}

func TestNameHeaderSingleName(t *testing.T) {
	lines := renderText(t, &resume.Record{LastName: "  Doe "})
	assert.Equal(t, []string{"DOE"}, lines)
}

func TestSectionOrder(t *testing.T) {
	// Map iteration order must not influence layout.
	raw := map[string]interface{}{
		"accomplishments": []interface{}{map[string]interface{}{"title": "Dean's List"}},
		"skills":          []interface{}{"Go"},
		"education":       []interface{}{map[string]interface{}{"degree": "B.Sc"}},
		"projects":        []interface{}{map[string]interface{}{"title": "Tracker"}},
		"experience":      []interface{}{map[string]interface{}{"role": "Engineer"}},
		"careerObjective": "Ship reliable software.",
		"firstName":       "Jane",
	}
	lines := renderText(t, normalized(t, raw))

	headings := []string{
		"PROFESSIONAL SUMMARY",
		"WORK EXPERIENCE",
		"PROJECTS",
		"EDUCATION",
		"SKILLS",
		"CERTIFICATIONS & AWARDS",
	}
	prev := -1
	for _, h := range headings {
		idx := indexOf(lines, h)
		require.NotEqual(t, -1, idx, "missing heading %q", h)
		assert.Greater(t, idx, prev, "heading %q out of order", h)
		prev = idx
	}
}

func TestEmptySectionsOmitted(t *testing.T) {
	lines := renderText(t, normalized(t, map[string]interface{}{
		"firstName":  "Jane",
		"experience": []interface{}{},
		"projects":   []interface{}{"not an object"},
		"education":  nil,
		"skills":     []interface{}{map[string]interface{}{"foo": "bar"}},
		"trainings":  []interface{}{map[string]interface{}{"provider": "Amazon"}},
	}))

	assert.Equal(t, []string{"JANE"}, lines)
}

func TestMalformedSectionSkipped(t *testing.T) {
	lines := renderText(t, normalized(t, map[string]interface{}{
		"firstName":  "Jane",
		"experience": "ten years at Acme",
		"skills":     []interface{}{"Go"},
	}))

	assert.Equal(t, -1, indexOf(lines, "WORK EXPERIENCE"))
	assert.Equal(t, []string{"JANE", "SKILLS", "Go"}, lines)
}

func TestExperienceEntries(t *testing.T) {
	lines := renderText(t, &resume.Record{
		Experience: []resume.Experience{
			{Role: "Engineer", Company: "Acme", StartDate: "2020", EndDate: "2022", Description: "Built APIs."},
			{Company: "Globex", StartDate: "2023"},
			{Role: "Intern"},
		},
	})

	assert.Equal(t, []string{
		"WORK EXPERIENCE",
		"Engineer, Acme (2020 - 2022)",
		"Built APIs.",
		"Globex (2023 - )",
		"Intern",
	}, lines)
}

func TestProjectEntries(t *testing.T) {
	lines := renderText(t, &resume.Record{
		Projects: []resume.Project{
			{Title: "Tracker", Role: "Lead", Technologies: "Go, Postgres", Description: "Job tracker."},
			{Role: "Contributor"},
		},
	})

	assert.Equal(t, []string{
		"PROJECTS",
		"Tracker",
		"Role: Lead",
		"Technologies: Go, Postgres",
		"Job tracker.",
		"Role: Contributor",
	}, lines)
}

func TestEducationEntries(t *testing.T) {
	lines := renderText(t, &resume.Record{
		Education: []resume.Education{
			{Degree: "B.Tech", Institution: "IIT Bombay", EndYear: "2020", Score: "9.1 CGPA"},
			{Institution: "City School"},
		},
	})

	assert.Equal(t, []string{
		"EDUCATION",
		"B.Tech, IIT Bombay (2020)",
		"Score: 9.1 CGPA",
		"City School",
	}, lines)
}

func TestSkillsFlattened(t *testing.T) {
	lines := renderText(t, normalized(t, map[string]interface{}{
		"skills": []interface{}{
			"Go",
			map[string]interface{}{"name": "Rust"},
			map[string]interface{}{"foo": "bar"},
		},
	}))

	assert.Equal(t, []string{"SKILLS", "Go, Rust"}, lines)
}

func TestCertificationsMerged(t *testing.T) {
	lines := renderText(t, normalized(t, map[string]interface{}{
		"accomplishments": []interface{}{map[string]interface{}{"title": "Dean's List"}},
		"trainings":       []interface{}{map[string]interface{}{"title": "AWS", "provider": "Amazon"}},
	}))

	assert.Equal(t, []string{"CERTIFICATIONS & AWARDS", "- AWS - Amazon", "- Dean's List"}, lines)
}

func TestLongTextWraps(t *testing.T) {
	summary := strings.TrimSpace(strings.Repeat("Designed and operated distributed systems at scale. ", 40))
	lines := renderText(t, &resume.Record{CareerObjective: summary})

	require.Greater(t, len(lines), 3)
	assert.Equal(t, "PROFESSIONAL SUMMARY", lines[0])
	assert.Equal(t, summary, strings.Join(lines[1:], " "))
}

func TestOverflowAddsPages(t *testing.T) {
	rec := &resume.Record{FirstName: "Jane"}
	for i := 0; i < 120; i++ {
		rec.Experience = append(rec.Experience, resume.Experience{Role: "Engineer", Company: "Acme"})
	}

	r := NewRenderer(testOptions(), zaptest.NewLogger(t))
	out, err := r.Render(rec)

	require.NoError(t, err)
	assert.Len(t, shownText(out), 122)
	assert.NotContains(t, string(out), "/Count 1\n")
}

func TestUnicodeTranslated(t *testing.T) {
	r := NewRenderer(testOptions(), zaptest.NewLogger(t))
	out, err := r.Render(&resume.Record{FirstName: "José"})

	require.NoError(t, err)
	assert.Contains(t, string(out), "(JOS\xc9)Tj")
}

func TestRenderEngineFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts := testOptions()
	opts.FontFamily = "NoSuchFont"

	r := NewRenderer(opts, zap.New(core))
	out, err := r.Render(&resume.Record{FirstName: "Jane", Skills: []string{"Go"}})

	assert.Nil(t, out)
	require.Error(t, err)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "failed to generate PDF")
	assert.Contains(t, strings.ToLower(renderErr.Err.Error()), "nosuchfont")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestRenderUnencodableText(t *testing.T) {
	tests := []struct {
		name string
		rec  *resume.Record
	}{
		{"name outside cp1252", &resume.Record{FirstName: "张伟"}},
		{"emoji in skills", &resume.Record{FirstName: "Jane", Skills: []string{"Go → Rust", "emoji 🚀"}}},
		{"symbol in experience", &resume.Record{Experience: []resume.Experience{{Role: "Engineer", Description: "Cut latency ≤ 5ms"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			r := NewRenderer(testOptions(), zap.New(core))

			out, err := r.Render(tt.rec)

			assert.Nil(t, out)
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Contains(t, renderErr.Err.Error(), "cannot encode")
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
		})
	}
}

func TestRenderRecoversEnginePanic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRenderer(testOptions(), zap.New(core))
	r.layout = func(*PDFGenerator, *resume.Record) error {
		panic("font table corrupted")
	}

	out, err := r.Render(&resume.Record{FirstName: "Jane"})

	assert.Nil(t, out)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.EqualError(t, err, "failed to generate PDF: pdf engine panic: font table corrupted")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	assert.Equal(t, "Error in PDF generation", logs.All()[0].Message)
}

func TestRenderConcurrentCalls(t *testing.T) {
	r := NewRenderer(testOptions(), zaptest.NewLogger(t))

	var wg sync.WaitGroup
	results := make([][]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := r.Render(&resume.Record{FirstName: "Jane", Skills: []string{"Go"}})
			errs[i] = err
			results[i] = shownText(out)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"JANE", "SKILLS", "Go"}, results[i])
	}
}
