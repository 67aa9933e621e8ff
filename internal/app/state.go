// Package app provides application state, configuration, and events.
package app

import (
	"fmt"
	"image"
	"sync"

	"vectorscope/internal/frame"
	"vectorscope/internal/scope"
)

// EventType identifies different application events.
type EventType int

const (
	EventFrameLoaded EventType = iota
	EventConfigChanged
	EventRendered
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the loaded frame, the active pipeline configuration, and the
// most recent rendered output. Configuration changes never wait on an
// in-flight render: Render snapshots the latest config when it starts.
type State struct {
	mu sync.RWMutex

	cfg       scope.Config
	framePath string
	source    *image.RGBA
	rendered  *image.RGBA

	listeners map[EventType][]EventListener

	// pipeMu serializes pipeline use; the pipeline must not be
	// reconfigured mid-frame.
	pipeMu   sync.Mutex
	pipeline *scope.Pipeline
}

// NewState creates application state with the default configuration.
func NewState() *State {
	cfg := scope.DefaultConfig()
	return &State{
		cfg:       cfg,
		pipeline:  scope.NewPipeline(cfg),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadFrame loads a source image from disk.
func (s *State) LoadFrame(path string) error {
	img, err := frame.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load frame: %w", err)
	}

	s.mu.Lock()
	s.framePath = path
	s.source = img
	s.rendered = nil
	s.mu.Unlock()

	s.Emit(EventFrameLoaded, path)
	return nil
}

// SetFrame installs an in-memory source image (live capture path).
func (s *State) SetFrame(img *image.RGBA) {
	s.mu.Lock()
	s.framePath = ""
	s.source = img
	s.rendered = nil
	s.mu.Unlock()

	s.Emit(EventFrameLoaded, "")
}

// Frame returns the current source image, or nil.
func (s *State) Frame() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// FramePath returns the path of the loaded frame, if it came from disk.
func (s *State) FramePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.framePath
}

// Config returns the active pipeline configuration.
func (s *State) Config() scope.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetConfig stores a new configuration and emits EventConfigChanged. It does
// not touch the pipeline, so it returns immediately even while a render runs.
func (s *State) SetConfig(cfg scope.Config) {
	cfg = cfg.Clamped()
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.Emit(EventConfigChanged, cfg)
}

// Render runs the pipeline on the current frame with the configuration in
// effect at call time and stores the result.
func (s *State) Render() (*image.RGBA, error) {
	s.mu.RLock()
	src := s.source
	cfg := s.cfg
	s.mu.RUnlock()
	if src == nil {
		return nil, fmt.Errorf("no frame loaded")
	}

	s.pipeMu.Lock()
	s.pipeline.SetConfig(cfg)
	out := s.pipeline.Render(src)
	s.pipeMu.Unlock()

	s.mu.Lock()
	s.rendered = out
	s.mu.Unlock()

	s.Emit(EventRendered, out)
	return out, nil
}

// Rendered returns the most recent pipeline output, or nil.
func (s *State) Rendered() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rendered
}
