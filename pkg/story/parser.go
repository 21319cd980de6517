package story

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	introductionHeading = "### INTRODUCTION"
	introductionEnd     = "---"
)

// sentenceEnd matches sentence-ending punctuation followed by
// whitespace. Purely lexical: abbreviations like "Dr." and decimal
// points split incorrectly.
var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// ParseIntroduction extracts the introduction block of a generated
// story: the text between the "### INTRODUCTION" heading and the
// next horizontal rule.
func ParseIntroduction(text string) (string, error) {
	start := strings.Index(text, introductionHeading)
	if start == -1 {
		return "", fmt.Errorf("no introduction section found in story")
	}

	contentStart := strings.Index(text[start:], "\n")
	if contentStart == -1 {
		contentStart = len(text) - start
	} else {
		contentStart++
	}
	rest := text[start+contentStart:]

	end := strings.Index(rest, introductionEnd)
	if end == -1 {
		return "", fmt.Errorf("no end marker (%s) found for introduction", introductionEnd)
	}

	return strings.TrimSpace(rest[:end]), nil
}

// SplitIntoSentences splits narration text into sentences for
// progressive display, preserving the terminal punctuation.
func SplitIntoSentences(text string) []string {
	parts := sentenceEnd.ReplaceAllString(text, "$1\x00")
	sentences := make([]string, 0)
	for _, s := range strings.Split(parts, "\x00") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
