// Package prefs persists UI preferences as JSON in the user config dir.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"vectorscope/internal/chroma"
	"vectorscope/internal/overlay"
	"vectorscope/internal/scope"
)

const prefsFile = "preferences.json"

// Stored is the on-disk layout: the scope configuration plus window state.
type Stored struct {
	Standard        string  `json:"standard"`
	OverlayMode     string  `json:"overlayMode"`
	Brightness      int     `json:"brightness"`
	PositionX       float64 `json:"positionX"`
	PositionY       float64 `json:"positionY"`
	Zoom            float64 `json:"zoom"`
	UIOpacity       float64 `json:"uiOpacity"`
	BackgroundAlpha float64 `json:"backgroundAlpha"`
	Checkerboard    bool    `json:"checkerboard"`
	LinearOutput    bool    `json:"linearOutput"`

	LastDirectory string `json:"lastDirectory"`
	LastImage     string `json:"lastImage"`
}

// Prefs wraps Stored with a file location and save lock.
type Prefs struct {
	mu     sync.Mutex
	path   string
	Values Stored
}

// Load reads preferences from ~/.config/vectorscope/preferences.json,
// falling back to the default configuration when the file is missing.
func Load() *Prefs {
	p := &Prefs{Values: fromConfig(scope.DefaultConfig())}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	p.path = filepath.Join(configDir, "vectorscope", prefsFile)

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.Values)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := json.MarshalIndent(p.Values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Config converts the stored values to a clamped pipeline configuration.
func (p *Prefs) Config() scope.Config {
	cfg := scope.DefaultConfig()

	if std, err := chroma.ParseStandard(p.Values.Standard); err == nil {
		cfg.Standard = std
	}
	if mode, err := overlay.ParseMode(p.Values.OverlayMode); err == nil {
		cfg.OverlayMode = mode
	}
	cfg.Brightness = p.Values.Brightness
	cfg.PositionX = p.Values.PositionX
	cfg.PositionY = p.Values.PositionY
	cfg.Zoom = p.Values.Zoom
	cfg.UIOpacity = p.Values.UIOpacity
	cfg.BackgroundAlpha = p.Values.BackgroundAlpha
	cfg.Checkerboard = p.Values.Checkerboard
	cfg.LinearOutput = p.Values.LinearOutput
	return cfg.Clamped()
}

// SetConfig stores a pipeline configuration for the next session.
func (p *Prefs) SetConfig(cfg scope.Config) {
	last := p.Values.LastDirectory
	lastImg := p.Values.LastImage
	p.Values = fromConfig(cfg)
	p.Values.LastDirectory = last
	p.Values.LastImage = lastImg
}

func fromConfig(cfg scope.Config) Stored {
	return Stored{
		Standard:        cfg.Standard.String(),
		OverlayMode:     cfg.OverlayMode.String(),
		Brightness:      cfg.Brightness,
		PositionX:       cfg.PositionX,
		PositionY:       cfg.PositionY,
		Zoom:            cfg.Zoom,
		UIOpacity:       cfg.UIOpacity,
		BackgroundAlpha: cfg.BackgroundAlpha,
		Checkerboard:    cfg.Checkerboard,
		LinearOutput:    cfg.LinearOutput,
	}
}
