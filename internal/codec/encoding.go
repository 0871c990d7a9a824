package codec

import (
	"errors"
	"path/filepath"
	"strings"
)

// EncodingType identifies the format of an EncodedFile
type EncodingType int

const (
	EncodingBin EncodingType = iota
	EncodingWAV
	EncodingMP3
	EncodingOgg
	EncodingFLAC
)

// Codec errors
var (
	ErrDecodeBin           = errors.New("binary data cannot be decoded")
	ErrEncodeBin           = errors.New("audio cannot be encoded as binary data")
	ErrUnsupportedEncoding = errors.New("encoding is not supported")
	ErrUnsupportedWAV      = errors.New("unsupported WAV layout")
)

// String returns the canonical file extension of the encoding
func (e EncodingType) String() string {
	switch e {
	case EncodingWAV:
		return "wav"
	case EncodingMP3:
		return "mp3"
	case EncodingOgg:
		return "ogg"
	case EncodingFLAC:
		return "flac"
	default:
		return "bin"
	}
}

// CanBeDecoded reports whether the encoding holds decodable audio
func (e EncodingType) CanBeDecoded() bool {
	return e != EncodingBin
}

// EncodingFromExtension maps a file extension, with or without the dot, to an encoding
func EncodingFromExtension(ext string) EncodingType {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav", "wave":
		return EncodingWAV
	case "mp3":
		return EncodingMP3
	case "ogg", "oga":
		return EncodingOgg
	case "flac":
		return EncodingFLAC
	default:
		return EncodingBin
	}
}

// EncodingFromPath maps a file path to an encoding by its extension
func EncodingFromPath(path string) EncodingType {
	return EncodingFromExtension(filepath.Ext(path))
}
