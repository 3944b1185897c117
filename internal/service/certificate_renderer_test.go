package service

import (
	"course_hub_backend/internal/model"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderFixture() (*model.Certificate, *model.User, *model.Course) {
	cert := &model.Certificate{
		CertificateID:   "7K3MZQ9XH2PLW4RT",
		VerificationURL: "https://courses.example.com/certificates/verify/7K3MZQ9XH2PLW4RT",
		CompletionDate:  time.Date(2024, time.March, 14, 15, 9, 26, 0, time.UTC),
	}
	user := &model.User{Name: "Ada Lovelace", Email: "ada@example.com"}
	course := &model.Course{Slug: "intro", Title: "Introduction to Go"}
	return cert, user, course
}

// shown encodes text the way it is written into a page content stream with an embedded
// TrueType font: UTF-16BE code units with the string delimiters escaped.
func shown(text string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(text)) {
		b.WriteByte(byte(u >> 8))
		b.WriteByte(byte(u))
	}
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`).Replace(b.String())
}

func TestRenderContainsAllFields(t *testing.T) {
	r := NewCertificateRenderer("Course Hub")
	cert, user, course := renderFixture()

	pdf, err := r.Render(cert, user, course)
	require.NoError(t, err)
	require.True(t, len(pdf) > 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	out := string(pdf)
	for _, want := range []string{
		"Ada Lovelace",
		"Introduction to Go",
		"March 14, 2024",
		"7K3MZQ9XH2PLW4RT",
		"https://courses.example.com/certificates/verify/7K3MZQ9XH2PLW4RT",
	} {
		assert.Contains(t, out, shown(want))
	}
	assert.Contains(t, out, "/URI (https://courses.example.com/certificates/verify/7K3MZQ9XH2PLW4RT)")
}

func TestRenderKeepsNonLatinText(t *testing.T) {
	r := NewCertificateRenderer("Course Hub")
	cert, user, course := renderFixture()
	user.Name = "王小明"
	course.Title = "Introducción à Go 语言入门"

	pdf, err := r.Render(cert, user, course)
	require.NoError(t, err)

	out := string(pdf)
	assert.Contains(t, out, shown("王小明"))
	assert.Contains(t, out, shown("Introducción à Go 语言入门"))
	assert.Contains(t, out, "/ToUnicode")
}

func TestRenderReplacesCharactersOutsideBMP(t *testing.T) {
	r := NewCertificateRenderer("Course Hub")
	cert, user, course := renderFixture()
	user.Name = "Ada 🚀"

	pdf, err := r.Render(cert, user, course)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), shown("Ada \uFFFD"))
}

func TestLoadFonts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.ttf")
	require.NoError(t, os.WriteFile(path, defaultRegularFont, 0o644))

	r := NewCertificateRenderer("Course Hub")
	require.NoError(t, r.LoadFonts(path, ""))
	cert, user, course := renderFixture()
	user.Name = "王小明"

	pdf, err := r.Render(cert, user, course)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), shown("王小明"))

	assert.Error(t, r.LoadFonts(filepath.Join(dir, "missing.ttf"), ""))
	assert.Error(t, r.LoadFonts(path, filepath.Join(dir, "missing-bold.ttf")))
}

func TestRenderFallsBackToEmail(t *testing.T) {
	r := NewCertificateRenderer("")
	cert, user, course := renderFixture()
	user.Name = ""

	pdf, err := r.Render(cert, user, course)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), shown("ada@example.com"))
	assert.NotContains(t, string(pdf), shown("Issued by"))
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewCertificateRenderer("Course Hub")
	cert, user, course := renderFixture()

	first, err := r.Render(cert, user, course)
	require.NoError(t, err)
	second, err := r.Render(cert, user, course)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderRequiresResolvedInput(t *testing.T) {
	r := NewCertificateRenderer("Course Hub")
	cert, user, course := renderFixture()

	_, err := r.Render(nil, user, course)
	assert.ErrorIs(t, err, errRenderInput)
	_, err = r.Render(cert, nil, course)
	assert.ErrorIs(t, err, errRenderInput)
	_, err = r.Render(cert, user, nil)
	assert.ErrorIs(t, err, errRenderInput)
}
