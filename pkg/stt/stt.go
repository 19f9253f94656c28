// Package stt turns a recorded utterance into lowercase text.
package stt

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnintelligible means the recognizer ran but heard no words.
var ErrUnintelligible = errors.New("could not understand audio")

// Recognizers annotate non-speech as [BLANK_AUDIO], (wind blowing) etc.
var annotationRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

// Normalize lowercases text and strips non-speech annotations.
func Normalize(text string) (string, error) {
	text = annotationRe.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}
