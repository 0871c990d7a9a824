package nus3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Section magics
const (
	MagicNUS3     = "NUS3"
	MagicAudioIdx = "AUDIINDX"
	MagicTrackIDs = "TNID"
	MagicNameOffs = "NMOF"
	MagicDataOffs = "ADOF"
	MagicNames    = "TNNM"
	MagicJunk     = "JUNK"
	MagicPack     = "PACK"
)

// Layout constants
const (
	FileExtension   = ".nus3audio"
	sectionHeader   = 8
	indexBodySize   = 4
	payloadAlign    = 16
	namesAlign      = 4
	minHeaderLength = 24
)

// Parse errors
var (
	ErrBadMagic         = errors.New("not a nus3audio file")
	ErrTruncated        = errors.New("nus3audio file is truncated")
	ErrMissingSection   = errors.New("nus3audio section missing")
	ErrCountMismatch    = errors.New("nus3audio section count mismatch")
	ErrOffsetOutOfRange = errors.New("nus3audio offset out of range")
)

// AudioFile is one named payload stored in the container
type AudioFile struct {
	ID   uint32
	Name string
	Data []byte
}

// Filename returns the name with the extension detected from the payload
func (a AudioFile) Filename() string {
	return a.Name + "." + string(DetectExtension(a.Data))
}

// File is an in-memory nus3audio container
type File struct {
	Files []AudioFile
}

// New returns an empty container
func New() *File {
	return &File{}
}

// Open reads and parses the container at path
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Read parses a container from r
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read nus3audio: %w", err)
	}
	return Parse(data)
}

// Parse decodes a container. Sections are located by magic so unknown
// sections are skipped; payloads and names are resolved through the
// absolute offsets stored in ADOF and NMOF.
func Parse(data []byte) (*File, error) {
	if len(data) < sectionHeader || string(data[:4]) != MagicNUS3 {
		return nil, ErrBadMagic
	}
	if len(data) < minHeaderLength {
		return nil, ErrTruncated
	}
	if string(data[8:16]) != MagicAudioIdx {
		return nil, fmt.Errorf("%w: missing %s", ErrBadMagic, MagicAudioIdx)
	}

	indexSize := int(binary.LittleEndian.Uint32(data[16:20]))
	if indexSize < indexBodySize || 20+indexSize > len(data) {
		return nil, ErrTruncated
	}
	count := int(binary.LittleEndian.Uint32(data[20:24]))

	var (
		ids, nameOffsets []uint32
		dataEntries      [][2]uint32
		seen             = map[string]bool{}
	)

	pos := 20 + indexSize
	for pos+sectionHeader <= len(data) {
		magic := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + sectionHeader
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("%w: section %q", ErrTruncated, magic)
		}
		section := data[body : body+size]
		seen[magic] = true

		switch magic {
		case MagicTrackIDs:
			ids = readUint32s(section)
		case MagicNameOffs:
			nameOffsets = readUint32s(section)
		case MagicDataOffs:
			words := readUint32s(section)
			dataEntries = make([][2]uint32, 0, len(words)/2)
			for i := 0; i+1 < len(words); i += 2 {
				dataEntries = append(dataEntries, [2]uint32{words[i], words[i+1]})
			}
		}

		pos = body + size
	}

	for _, required := range []string{MagicTrackIDs, MagicNameOffs, MagicDataOffs} {
		if !seen[required] {
			return nil, fmt.Errorf("%w: %s", ErrMissingSection, required)
		}
	}
	if len(ids) < count || len(nameOffsets) < count || len(dataEntries) < count {
		return nil, fmt.Errorf("%w: index says %d, found %d ids, %d names, %d payloads",
			ErrCountMismatch, count, len(ids), len(nameOffsets), len(dataEntries))
	}

	f := &File{Files: make([]AudioFile, 0, count)}
	for i := 0; i < count; i++ {
		name, err := readCString(data, int(nameOffsets[i]))
		if err != nil {
			return nil, fmt.Errorf("file %d name: %w", i, err)
		}

		offset, size := int(dataEntries[i][0]), int(dataEntries[i][1])
		if offset < 0 || size < 0 || offset+size > len(data) {
			return nil, fmt.Errorf("%w: payload %d (%s) at %d+%d", ErrOffsetOutOfRange, i, name, offset, size)
		}

		payload := make([]byte, size)
		copy(payload, data[offset:offset+size])

		f.Files = append(f.Files, AudioFile{
			ID:   ids[i],
			Name: name,
			Data: payload,
		})
	}

	return f, nil
}

// readUint32s decodes a little-endian uint32 array, ignoring a trailing partial word
func readUint32s(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4 : i*4+4])
	}
	return out
}

// readCString reads a NUL-terminated string starting at offset
func readCString(data []byte, offset int) (string, error) {
	if offset < 0 || offset >= len(data) {
		return "", fmt.Errorf("%w: name offset %d", ErrOffsetOutOfRange, offset)
	}
	end := bytes.IndexByte(data[offset:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated name at %d", ErrTruncated, offset)
	}
	return string(data[offset : offset+end]), nil
}
