package editor

import (
	"fmt"
	"strings"
)

// SoundError is a failure tied to one sound of the bank
type SoundError struct {
	Index int
	Name  string
	Err   error
}

func (e SoundError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e SoundError) Unwrap() error {
	return e.Err
}

// Report collects per-sound failures of an operation that still completed
type Report struct {
	Errors []SoundError
}

func (r *Report) add(index int, name string, err error) {
	r.Errors = append(r.Errors, SoundError{Index: index, Name: name, Err: err})
}

// HasErrors returns true if any sound failed
func (r *Report) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// String lists the failures one per line
func (r *Report) String() string {
	if !r.HasErrors() {
		return ""
	}
	lines := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

// SkippedSound is a sound ExportAll could not decode
type SkippedSound struct {
	Name string
	Err  error
}

func (s SkippedSound) String() string {
	return fmt.Sprintf("%s: %v", s.Name, s.Err)
}
