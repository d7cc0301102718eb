package services

import (
	"strings"
	"unicode/utf8"
)

const defaultChunkRunes = 8000

// TextChunker splits long documents into pieces that fit the embedding
// model's input budget.
type TextChunker interface {
	Split(text string, maxRunes int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// Split implements TextChunker. Paragraphs are packed greedily; a paragraph
// longer than maxRunes is split on sentence ends, and a sentence longer than
// maxRunes is cut hard.
func (tc *textChunker) Split(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = defaultChunkRunes
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)

	flush := func() {
		if size > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}

	add := func(piece, sep string) {
		n := utf8.RuneCountInString(piece)
		if size > 0 && size+utf8.RuneCountInString(sep)+n > maxRunes {
			flush()
		}
		if size > 0 {
			current.WriteString(sep)
			size += utf8.RuneCountInString(sep)
		}
		current.WriteString(piece)
		size += n
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxRunes {
			add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			for _, piece := range hardCut(sentence, maxRunes) {
				add(piece, " ")
			}
		}
	}
	flush()

	return chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	result := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func hardCut(s string, maxRunes int) []string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return []string{s}
	}

	var parts []string
	for start := 0; start < len(runes); start += maxRunes {
		end := min(start+maxRunes, len(runes))
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
