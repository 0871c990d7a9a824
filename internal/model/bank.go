package model

import (
	"path/filepath"
	"strings"

	"github.com/ytget/nus3audio-editor/internal/nus3"
)

// Bank is the nus3audio file being edited
type Bank struct {
	Name     string
	Path     string
	Sounds   []*Sound
	Modified bool
}

// NewBank returns an empty, unmodified bank
func NewBank() *Bank {
	return &Bank{}
}

// Len returns the number of sounds
func (b *Bank) Len() int {
	return len(b.Sounds)
}

// Get returns the sound at i, or nil when out of range
func (b *Bank) Get(i int) *Sound {
	if i < 0 || i >= len(b.Sounds) {
		return nil
	}
	return b.Sounds[i]
}

// Add appends a sound and marks the bank modified
func (b *Bank) Add(s *Sound) int {
	b.Sounds = append(b.Sounds, s)
	b.Modified = true
	return len(b.Sounds) - 1
}

// Remove deletes the sound at i and marks the bank modified
func (b *Bank) Remove(i int) *Sound {
	s := b.Get(i)
	if s == nil {
		return nil
	}
	b.Sounds = append(b.Sounds[:i], b.Sounds[i+1:]...)
	b.Modified = true
	return s
}

// Clear empties the bank and forgets its file
func (b *Bank) Clear() {
	b.Sounds = nil
	b.Name = ""
	b.Path = ""
	b.Modified = false
}

// SetPath adopts path as the bank's file
func (b *Bank) SetPath(path string) {
	b.Path = path
	b.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Title returns the window title for the bank
func (b *Bank) Title(appName string) string {
	name := b.Name
	if name == "" {
		name = "untitled"
	}
	title := name + nus3.FileExtension + " - " + appName
	if b.Modified {
		title = "*" + title
	}
	return title
}

// Index returns the position of the sound with id, or -1
func (b *Bank) Index(id string) int {
	for i, s := range b.Sounds {
		if s.ID == id {
			return i
		}
	}
	return -1
}
