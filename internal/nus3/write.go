package nus3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// layout holds the computed positions of every section for one serialization
type layout struct {
	names       []byte
	nameOffsets []uint32
	junk        int
	packStart   int
	pack        [][]byte
	dataOffsets [][2]uint32
	total       int
}

func align(n, to int) int {
	if rem := n % to; rem != 0 {
		return n + to - rem
	}
	return n
}

// plan computes the layout. Identical payloads are stored once and every
// entry that refers to them points at the same PACK offset.
func (f *File) plan() layout {
	count := len(f.Files)
	var l layout

	tnnmHeader := minHeaderLength + 3*sectionHeader + 16*count
	namesStart := tnnmHeader + sectionHeader

	l.nameOffsets = make([]uint32, count)
	var names bytes.Buffer
	for i, af := range f.Files {
		l.nameOffsets[i] = uint32(namesStart + names.Len())
		names.WriteString(af.Name)
		names.WriteByte(0)
	}
	for names.Len()%namesAlign != 0 {
		names.WriteByte(0)
	}
	l.names = names.Bytes()

	junkHeader := namesStart + len(l.names)
	l.junk = payloadAlign - (junkHeader+2*sectionHeader)%payloadAlign
	if l.junk < 4 {
		l.junk += payloadAlign
	}
	l.packStart = junkHeader + sectionHeader + l.junk + sectionHeader

	// xxhash buckets; collisions fall back to a byte compare
	stored := map[uint64][]int{}
	l.dataOffsets = make([][2]uint32, count)
	pos := l.packStart
	for i, af := range f.Files {
		key := xxhash.Sum64(af.Data)
		found := -1
		for _, j := range stored[key] {
			if bytes.Equal(f.Files[j].Data, af.Data) {
				found = j
				break
			}
		}
		if found >= 0 {
			l.dataOffsets[i] = l.dataOffsets[found]
			continue
		}

		stored[key] = append(stored[key], i)
		l.dataOffsets[i] = [2]uint32{uint32(pos), uint32(len(af.Data))}
		l.pack = append(l.pack, af.Data)
		pos += align(len(af.Data), payloadAlign)
	}

	l.total = pos
	return l
}

// Size returns the number of bytes WriteTo will produce
func (f *File) Size() int {
	return f.plan().total
}

// Bytes serializes the container
func (f *File) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(f.Size())
	_, _ = f.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo serializes the container to w
func (f *File) WriteTo(w io.Writer) (int64, error) {
	l := f.plan()
	count := len(f.Files)

	cw := &countingWriter{w: w}
	le := binary.LittleEndian

	writeHeader := func(magic string, size int) {
		cw.write([]byte(magic))
		cw.u32(le, uint32(size))
	}

	writeHeader(MagicNUS3, l.total-sectionHeader)
	cw.write([]byte(MagicAudioIdx))
	cw.u32(le, indexBodySize)
	cw.u32(le, uint32(count))

	writeHeader(MagicTrackIDs, 4*count)
	for _, af := range f.Files {
		cw.u32(le, af.ID)
	}

	writeHeader(MagicNameOffs, 4*count)
	for _, off := range l.nameOffsets {
		cw.u32(le, off)
	}

	writeHeader(MagicDataOffs, 8*count)
	for _, entry := range l.dataOffsets {
		cw.u32(le, entry[0])
		cw.u32(le, entry[1])
	}

	writeHeader(MagicNames, len(l.names))
	cw.write(l.names)

	writeHeader(MagicJunk, l.junk)
	cw.write(make([]byte, l.junk))

	writeHeader(MagicPack, l.total-l.packStart)
	var pad [payloadAlign]byte
	for _, payload := range l.pack {
		cw.write(payload)
		cw.write(pad[:align(len(payload), payloadAlign)-len(payload)])
	}

	if cw.err != nil {
		return cw.n, fmt.Errorf("failed to write nus3audio: %w", cw.err)
	}
	return cw.n, nil
}

// countingWriter remembers the first error so the serializer can write
// sections without checking every call
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) write(p []byte) {
	if c.err != nil || len(p) == 0 {
		return
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
}

func (c *countingWriter) u32(order binary.ByteOrder, v uint32) {
	var b [4]byte
	order.PutUint32(b[:], v)
	c.write(b[:])
}
