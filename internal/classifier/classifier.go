// Package classifier serves a pre-trained linear text classifier that labels
// the most likely job role of a résumé.
//
// The artifact is a JSON export of a TF-IDF vectorizer paired with a linear
// model: a term vocabulary, per-term inverse document frequencies, the class
// labels, one coefficient row per class and one intercept per class. Binary
// models with a single coefficient row are supported as well.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"alfredoptarigan/resume-scanner/internal/scoring"
)

type Classifier interface {
	Predict(text string) (string, bool)
}

type artifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Classes    []string       `json:"classes"`
	Coef       [][]float64    `json:"coef"`
	Intercept  []float64      `json:"intercept"`
}

type linearClassifier struct {
	model artifact
}

// Runs of two or more Unicode letters, digits or underscores, matching the
// default TF-IDF token pattern the artifacts are exported with.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Load reads a model artifact. A missing file yields a wrapped
// scoring.ErrModelUnavailable so callers can run without a classifier.
func Load(path string) (Classifier, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no model path configured", scoring.ErrModelUnavailable)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", scoring.ErrModelUnavailable, path)
		}
		return nil, fmt.Errorf("failed to read role model: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (Classifier, error) {
	var model artifact
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to decode role model: %w", err)
	}

	if err := model.validate(); err != nil {
		return nil, fmt.Errorf("invalid role model: %w", err)
	}

	return &linearClassifier{model: model}, nil
}

func (a *artifact) validate() error {
	features := len(a.IDF)
	if features == 0 || len(a.Vocabulary) == 0 {
		return errors.New("empty vocabulary")
	}
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= features {
			return fmt.Errorf("term %q has out of range index %d", term, idx)
		}
	}

	classes := len(a.Classes)
	if classes < 2 {
		return errors.New("at least two classes are required")
	}

	rows := classes
	if classes == 2 {
		rows = len(a.Coef)
		if rows != 1 && rows != 2 {
			return fmt.Errorf("binary model needs 1 or 2 coefficient rows, got %d", rows)
		}
	}
	if len(a.Coef) != rows || len(a.Intercept) != rows {
		return fmt.Errorf("expected %d coefficient rows and intercepts, got %d and %d", rows, len(a.Coef), len(a.Intercept))
	}
	for i, row := range a.Coef {
		if len(row) != features {
			return fmt.Errorf("coefficient row %d has %d features, want %d", i, len(row), features)
		}
	}

	return nil
}

// Predict implements Classifier. ok is false when the text shares no term
// with the vocabulary.
func (c *linearClassifier) Predict(text string) (string, bool) {
	x, ok := c.vectorize(text)
	if !ok {
		return "", false
	}

	m := c.model
	if len(m.Coef) == 1 {
		if dot(m.Coef[0], x)+m.Intercept[0] > 0 {
			return m.Classes[1], true
		}
		return m.Classes[0], true
	}

	best, bestScore := 0, math.Inf(-1)
	for i, row := range m.Coef {
		score := dot(row, x) + m.Intercept[i]
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	return m.Classes[best], true
}

func (c *linearClassifier) vectorize(text string) (map[int]float64, bool) {
	counts := make(map[int]float64)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if idx, ok := c.model.Vocabulary[token]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil, false
	}

	var norm float64
	for idx, tf := range counts {
		v := tf * c.model.IDF[idx]
		counts[idx] = v
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil, false
	}
	for idx := range counts {
		counts[idx] /= norm
	}

	return counts, true
}

func dot(row []float64, x map[int]float64) float64 {
	var sum float64
	for idx, v := range x {
		sum += row[idx] * v
	}
	return sum
}
