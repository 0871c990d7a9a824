package convert

import (
	"context"
	"strings"
	"sync"
)

type call struct {
	name string
	args []string
}

// fakeRunner records calls and answers with handle
type fakeRunner struct {
	mu     sync.Mutex
	calls  []call
	handle func(name string, args []string) (Result, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()

	if f.handle == nil {
		return Result{}, nil
	}
	return f.handle(name, args)
}

func (f *fakeRunner) commandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.calls {
		out = append(out, strings.TrimSpace(c.name+" "+strings.Join(c.args, " ")))
	}
	return out
}

func staticTools(t Tools) func() Tools {
	return func() Tools { return t }
}
