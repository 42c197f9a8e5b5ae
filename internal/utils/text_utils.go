package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// Ellipsis is appended to a body that was cut at the truncation limit.
const Ellipsis = "..."

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText truncates text to at most maxChars characters and appends the
// ellipsis marker when anything was cut. The cut never splits a UTF-8
// sequence.
func (tp *TextProcessor) TruncateText(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	runes := []rune(text)
	truncated := string(runes[:maxChars])

	if tp.logger != nil {
		tp.logger.Debug("Text truncated",
			zap.Int("original_chars", len(runes)),
			zap.Int("max_chars", maxChars))
	}

	return truncated + Ellipsis
}

// SanitizeUTF8 drops invalid UTF-8 sequences from the string. Used as the
// fallback when a MIME header refuses to decode: the raw bytes are kept,
// minus anything that is not valid UTF-8.
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				// Skip invalid UTF-8 sequences
				continue
			}
		}
		result = append(result, r)
	}

	if tp.logger != nil {
		tp.logger.Debug("Text sanitized",
			zap.Int("original_size", len(text)),
			zap.Int("sanitized_size", len(string(result))))
	}

	return string(result)
}
