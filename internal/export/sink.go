package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives finished artifacts. A sink is handed exactly one artifact per
// successful export.
type Sink interface {
	Deliver(ctx context.Context, a *Artifact) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, a *Artifact) error

// Deliver calls f(ctx, a).
func (f SinkFunc) Deliver(ctx context.Context, a *Artifact) error {
	return f(ctx, a)
}

// DirSink writes artifacts into a directory, replacing files of the same name.
type DirSink struct {
	Dir string
}

// Deliver writes a.Content to Dir/a.Filename and records the path on a.
func (s DirSink) Deliver(ctx context.Context, a *Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	dst := filepath.Join(s.Dir, a.Filename)
	tmp, err := os.CreateTemp(s.Dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(a.Content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", a.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", a.Filename, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename %s: %w", a.Filename, err)
	}

	a.Path = dst
	return nil
}

// MemorySink keeps delivered artifacts in order. Safe for concurrent use.
type MemorySink struct {
	mu        sync.Mutex
	artifacts []*Artifact
}

// Deliver appends a.
func (s *MemorySink) Deliver(_ context.Context, a *Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, a)
	return nil
}

// Artifacts returns a copy of everything delivered so far.
func (s *MemorySink) Artifacts() []*Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Artifact(nil), s.artifacts...)
}

// Last returns the most recent artifact, or nil.
func (s *MemorySink) Last() *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.artifacts) == 0 {
		return nil
	}
	return s.artifacts[len(s.artifacts)-1]
}
