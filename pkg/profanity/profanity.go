// Package profanity screens free text submitted by guests (song titles, artists).
package profanity

import (
	goaway "github.com/TwiN/go-away"
)

type Checker interface {
	IsProfane(text string) bool
}

type Filter struct {
	detector *goaway.ProfanityDetector
}

func NewFilter() *Filter {
	return &Filter{detector: goaway.NewProfanityDetector()}
}

func (f *Filter) IsProfane(text string) bool {
	if text == "" {
		return false
	}
	return f.detector.IsProfane(text)
}
