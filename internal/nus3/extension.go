package nus3

import (
	"bytes"
	"errors"
	"strings"
)

// Extension is the payload format stored in a container
type Extension string

const (
	ExtIDSP  Extension = "idsp"
	ExtLOPUS Extension = "lopus"
	ExtBin   Extension = "bin"
)

var (
	magicIDSP = []byte("IDSP")
	magicOPUS = []byte("OPUS")
)

// ErrTooShort is returned when a payload cannot hold a format magic
var ErrTooShort = errors.New("payload too short to identify")

// DetectExtension identifies a payload strictly by its magic bytes
func DetectExtension(data []byte) Extension {
	switch {
	case bytes.HasPrefix(data, magicIDSP):
		return ExtIDSP
	case bytes.HasPrefix(data, magicOPUS):
		return ExtLOPUS
	default:
		return ExtBin
	}
}

// GuessEncodedExtension identifies a payload produced by VGAudioCli.
// Lopus output does not always carry the OPUS magic, so anything that is
// not IDSP is taken as lopus.
func GuessEncodedExtension(data []byte) (Extension, error) {
	if len(data) < 4 {
		return "", ErrTooShort
	}
	if bytes.HasPrefix(data, magicIDSP) {
		return ExtIDSP, nil
	}
	return ExtLOPUS, nil
}

// ParseExtension maps a file extension (without the dot) to a payload format
func ParseExtension(s string) (Extension, bool) {
	switch Extension(strings.ToLower(s)) {
	case ExtIDSP:
		return ExtIDSP, true
	case ExtLOPUS:
		return ExtLOPUS, true
	case ExtBin:
		return ExtBin, true
	}
	return "", false
}

// Encoded reports whether the format is produced by an encoder
func (e Extension) Encoded() bool {
	return e == ExtIDSP || e == ExtLOPUS
}
