package services

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/resume-scanner/internal/scoring"
	"alfredoptarigan/resume-scanner/internal/skills"
)

var (
	// ErrUnsupportedFile rejects an upload before any pipeline work.
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrExtraction      = errors.New("failed to extract document text")
)

var SupportedExtensions = []string{".pdf", ".docx"}

var (
	experiencePattern = regexp.MustCompile(`(\d+)\+?\s*(years|yrs)`)
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	xmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	paragraphEnd      = regexp.MustCompile(`</w:p>`)

	degrees = []string{"b.tech", "bachelor", "m.tech", "master", "b.e", "mca", "phd"}
)

// Extractor turns an uploaded résumé into a ParsedDocument.
type Extractor interface {
	Extract(filename string, data []byte) (scoring.ParsedDocument, error)
}

type extractor struct {
	inventory *skills.Inventory
}

func NewExtractor(inv *skills.Inventory) Extractor {
	return &extractor{inventory: inv}
}

// ValidateFilename returns ErrUnsupportedFile unless the extension is one of
// SupportedExtensions.
func ValidateFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range SupportedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFile, filename)
}

// Extract implements Extractor.
func (e *extractor) Extract(filename string, data []byte) (scoring.ParsedDocument, error) {
	if err := ValidateFilename(filename); err != nil {
		return scoring.ParsedDocument{}, err
	}

	var (
		raw string
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		raw, err = extractPDFText(data)
	case ".docx":
		raw, err = extractDocxText(data)
	}
	if err != nil {
		return scoring.ParsedDocument{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return e.Parse(raw), nil
}

// Parse derives the structured fields from raw document text.
func (e *extractor) Parse(raw string) scoring.ParsedDocument {
	cleaned := strings.ToLower(raw)

	return scoring.ParsedDocument{
		CleanedText:     cleaned,
		Skills:          e.inventory.Detect(cleaned),
		ExperienceYears: ExtractExperience(cleaned),
		Education:       ExtractEducation(cleaned),
		ContactEmail:    emailPattern.FindString(raw),
		ContactName:     guessName(raw),
	}
}

// ExtractExperience returns the largest "N years" / "N+ yrs" figure, or 0.
func ExtractExperience(text string) int {
	years := 0
	for _, m := range experiencePattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > years {
			years = n
		}
	}
	return years
}

func ExtractEducation(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, d := range degrees {
		if strings.Contains(lower, d) {
			found = append(found, d)
		}
	}
	return found
}

// guessName takes the first non-empty line when it reads like a personal
// name: two to four words made of letters only.
func guessName(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			return ""
		}
		for _, w := range words {
			for _, r := range w {
				if !unicode.IsLetter(r) && r != '.' && r != '-' && r != '\'' {
					return ""
				}
			}
		}
		return strings.Join(words, " ")
	}
	return ""
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return DocxPlainText(doc.Editable().GetContent()), nil
}

// DocxPlainText reduces WordprocessingML to text, one line per paragraph.
func DocxPlainText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTagPattern.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}
