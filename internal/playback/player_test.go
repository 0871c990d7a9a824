package playback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/nus3audio-editor/internal/codec"
	"github.com/ytget/nus3audio-editor/internal/model"
)

type fakeOutput struct {
	mu       sync.Mutex
	initErr  error
	inits    int
	clears   int
	streamer beep.Streamer
}

func (f *fakeOutput) Init(beep.SampleRate) error {
	f.inits++
	if f.initErr != nil {
		err := f.initErr
		f.initErr = nil
		return err
	}
	return nil
}

// Play and Clear lock like the speaker does
func (f *fakeOutput) Play(s beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamer = s
}

func (f *fakeOutput) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.streamer = nil
}

func (f *fakeOutput) Lock()   { f.mu.Lock() }
func (f *fakeOutput) Unlock() { f.mu.Unlock() }

// tick streams n frames if anything is playing, like one device callback
func (f *fakeOutput) tick(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.streamer != nil {
		f.streamer.Stream(make([][2]float64, n))
	}
}

// pull streams n frames from the playing streamer like the device would
func (f *fakeOutput) pull(t *testing.T, n int) int {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotNil(t, f.streamer)

	got := 0
	buf := make([][2]float64, 512)
	for got < n {
		size := min(len(buf), n-got)
		m, ok := f.streamer.Stream(buf[:size])
		got += m
		if !ok {
			break
		}
	}
	return got
}

func source(frames, channels int, loop *model.LoopPoints) Source {
	return func() (*codec.PCM, *model.LoopPoints, error) {
		pcm := &codec.PCM{
			Samples:    make([]int16, frames*channels),
			Channels:   channels,
			SampleRate: int(DeviceSampleRate),
		}
		return pcm, loop, nil
	}
}

func TestToggle(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)

	state, err := p.Toggle(source(44100, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, model.PlaybackPlaying, state)

	st := p.Status()
	assert.Equal(t, model.PlaybackPlaying, st.State)
	assert.Equal(t, time.Second, st.Duration)
	assert.Zero(t, st.Position)

	out.pull(t, 22050)
	assert.Equal(t, 500*time.Millisecond, p.Status().Position)

	notCalled := func() (*codec.PCM, *model.LoopPoints, error) {
		t.Fatal("source must not be loaded while a stream is active")
		return nil, nil, nil
	}
	state, err = p.Toggle(notCalled)
	require.NoError(t, err)
	assert.Equal(t, model.PlaybackPaused, state)
	assert.Equal(t, model.PlaybackPaused, p.Status().State)

	state, err = p.Toggle(notCalled)
	require.NoError(t, err)
	assert.Equal(t, model.PlaybackPlaying, state)

	p.Stop()
	assert.Equal(t, model.PlaybackStopped, p.Status().State)
	assert.Equal(t, 1, out.inits)
}

func TestPlaysToEnd(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)

	_, err := p.Toggle(source(1000, 2, nil))
	require.NoError(t, err)

	assert.Equal(t, 1000, out.pull(t, 5000))
	assert.Equal(t, model.PlaybackStopped, p.Status().State)

	_, err = p.Toggle(source(10, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, model.PlaybackPlaying, p.Status().State)
}

func TestLoopPlaysForever(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)

	_, err := p.Toggle(source(1000, 1, &model.LoopPoints{Start: 200, End: 800}))
	require.NoError(t, err)

	assert.Equal(t, 10000, out.pull(t, 10000))
	st := p.Status()
	assert.Equal(t, model.PlaybackPlaying, st.State)
	assert.GreaterOrEqual(t, st.Position, DeviceSampleRate.D(200))
	assert.Less(t, st.Position, DeviceSampleRate.D(800))
}

func TestSourceErrors(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)

	sourceErr := errors.New("audio of selected item is empty")
	state, err := p.Toggle(func() (*codec.PCM, *model.LoopPoints, error) {
		return nil, nil, sourceErr
	})
	assert.ErrorIs(t, err, sourceErr)
	assert.Equal(t, model.PlaybackStopped, state)
	assert.Zero(t, out.inits, "device is opened lazily")

	_, err = p.Toggle(source(10, 0, nil))
	assert.ErrorIs(t, err, ErrNoChannels)
}

func TestInitRetried(t *testing.T) {
	out := &fakeOutput{initErr: errors.New("no device")}
	p := NewPlayer(out)

	_, err := p.Toggle(source(10, 1, nil))
	require.Error(t, err)
	assert.Equal(t, model.PlaybackStopped, p.Status().State)

	_, err = p.Toggle(source(10, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, 2, out.inits)
}

func TestPCMStreamer(t *testing.T) {
	s := newPCMStreamer(&codec.PCM{
		Samples:    []int16{16384, -16384, 7, -32768, 0, 7},
		Channels:   3,
		SampleRate: 8000,
	})
	buf := make([][2]float64, 4)

	n, ok := s.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 2, n)
	assert.Equal(t, [2]float64{0.5, -0.5}, buf[0])
	assert.Equal(t, [2]float64{-1, 0}, buf[1])

	_, ok = s.Stream(buf)
	assert.False(t, ok)

	require.NoError(t, s.Seek(1))
	assert.Equal(t, 1, s.Position())
	assert.Error(t, s.Seek(3))
}

func TestConcurrentControls(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)
	src := source(4410, 2, nil)

	done := make(chan struct{})
	device := make(chan struct{})
	go func() {
		defer close(device)
		for {
			select {
			case <-done:
				return
			default:
				out.tick(256)
			}
		}
	}()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch (g + i) % 3 {
				case 0:
					if _, err := p.Toggle(src); err != nil {
						errs <- err
						return
					}
				case 1:
					p.Stop()
				default:
					st := p.Status()
					if st.Position > st.Duration {
						errs <- errors.New("position past the end")
						return
					}
				}
			}
		}(g)
	}
	wg.Wait()
	close(done)
	<-device
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	p.Stop()
	assert.Equal(t, model.PlaybackStopped, p.Status().State)
	assert.Equal(t, 1, out.inits)
}
