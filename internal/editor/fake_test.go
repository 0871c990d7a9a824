package editor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/model"
	"github.com/ytget/nus3audio-editor/internal/platform"
)

var errUndecodable = errors.New("unknown format")

type encodeCall struct {
	src, dest string
	wav       codec.WAVInfo
	loop      *model.LoopPoints
}

// fakeConverter decodes every payload that does not start with "BAD!" to wav
type fakeConverter struct {
	mu      sync.Mutex
	wav     []byte
	loop    *model.LoopPoints
	encodes []encodeCall
	decodes int
}

func (f *fakeConverter) Decode(_ context.Context, src string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decodes++

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("BAD!")) {
		return nil, errUndecodable
	}
	return f.wav, nil
}

func (f *fakeConverter) Encode(_ context.Context, srcWAV, dest string, loop *model.LoopPoints) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(srcWAV)
	if err != nil {
		return nil, err
	}
	info, err := codec.ReadWAVInfo(raw)
	if err != nil {
		return nil, err
	}
	f.encodes = append(f.encodes, encodeCall{src: srcWAV, dest: dest, wav: info, loop: loop})

	out := []byte("IDSP-encoded")
	if filepath.Ext(dest) == ".lopus" {
		out = []byte("OPUS-encoded")
	}
	return out, os.WriteFile(dest, out, 0o644)
}

func (f *fakeConverter) LoopPoints(context.Context, string) (*model.LoopPoints, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loop == nil {
		return nil, false
	}
	l := *f.loop
	return &l, true
}

func (f *fakeConverter) Info(context.Context, string) (*platform.VgmstreamInfo, error) {
	return nil, errors.New("not implemented")
}
