package fractal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Depth limits.
const (
	MinDepth = 3
	MaxDepth = 8
)

// Configuration errors. Validate wraps one of these for every violation.
var (
	ErrInvalidDepth    = errors.New("fractal: invalid depth")
	ErrInvalidRange    = errors.New("fractal: invalid range")
	ErrInvalidChance   = errors.New("fractal: invalid reverse spin chance")
	ErrInvalidGradient = errors.New("fractal: invalid gradient")
	ErrInvalidMesh     = errors.New("fractal: invalid mesh")
)

// Config holds everything fixed at build time. Changing any field requires
// a rebuild (see Fractal.SetConfig).
type Config struct {
	// Depth is the number of levels, MinDepth..MaxDepth.
	Depth int `yaml:"depth"`

	// Seed drives every random draw made while building.
	Seed uint64 `yaml:"seed"`

	// SagAngle is the per-part maximum sag, degrees within [0, 90].
	SagAngle Range `yaml:"sag_angle"`

	// SpinSpeed is the per-part spin speed, degrees per second within [0, 90].
	SpinSpeed Range `yaml:"spin_speed"`

	// ReverseSpinChance is the probability a part spins clockwise.
	ReverseSpinChance float32 `yaml:"reverse_spin_chance"`

	// Gradients color the branch levels; leaf colors the deepest level.
	GradientA  Gradient `yaml:"gradient_a"`
	GradientB  Gradient `yaml:"gradient_b"`
	LeafColorA Color    `yaml:"leaf_color_a"`
	LeafColorB Color    `yaml:"leaf_color_b"`

	BranchMesh MeshID `yaml:"branch_mesh"`
	LeafMesh   MeshID `yaml:"leaf_mesh"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Depth:             4,
		Seed:              1,
		SagAngle:          Range{Min: 15, Max: 25},
		SpinSpeed:         Range{Min: 20, Max: 25},
		ReverseSpinChance: 0.25,
		GradientA: NewGradient(
			Color{R: 1, G: 1, B: 1, A: 1},
			Color{R: 0.55, G: 0.42, B: 0.3, A: 1},
		),
		GradientB: NewGradient(
			Color{R: 0.8, G: 0.8, B: 0.8, A: 1},
			Color{R: 0.36, G: 0.27, B: 0.2, A: 1},
		),
		LeafColorA: Color{R: 0.42, G: 0.7, B: 0.25, A: 1},
		LeafColorB: Color{R: 0.18, G: 0.49, B: 0.12, A: 1},
		BranchMesh: MeshCube,
		LeafMesh:   MeshLeaf,
	}
}

// Validate reports every problem with the configuration. Nothing is clamped:
// a config that does not validate is rejected as a whole.
func (c Config) Validate() error {
	var errs []error
	if c.Depth < MinDepth || c.Depth > MaxDepth {
		errs = append(errs, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidDepth, c.Depth, MinDepth, MaxDepth))
	}
	if err := validateRange("sag_angle", c.SagAngle, 0, 90); err != nil {
		errs = append(errs, err)
	}
	if err := validateRange("spin_speed", c.SpinSpeed, 0, 90); err != nil {
		errs = append(errs, err)
	}
	if !finite(c.ReverseSpinChance) || c.ReverseSpinChance < 0 || c.ReverseSpinChance > 1 {
		errs = append(errs, fmt.Errorf("%w: %v not in [0, 1]", ErrInvalidChance, c.ReverseSpinChance))
	}
	if err := c.GradientA.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gradient_a: %w", err))
	}
	if err := c.GradientB.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gradient_b: %w", err))
	}
	if c.BranchMesh == "" {
		errs = append(errs, fmt.Errorf("%w: branch_mesh is empty", ErrInvalidMesh))
	}
	if c.LeafMesh == "" {
		errs = append(errs, fmt.Errorf("%w: leaf_mesh is empty", ErrInvalidMesh))
	}
	return errors.Join(errs...)
}

func validateRange(name string, r Range, lo, hi float32) error {
	if !finite(r.Min) || !finite(r.Max) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalidRange, name)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s min %v > max %v", ErrInvalidRange, name, r.Min, r.Max)
	}
	if r.Min < lo || r.Max > hi {
		return fmt.Errorf("%w: %s [%v, %v] outside [%v, %v]", ErrInvalidRange, name, r.Min, r.Max, lo, hi)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("fractal: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("fractal: read config: %w", err)
	}
	return ParseConfig(data)
}

// Encode returns the configuration as YAML.
func (c Config) Encode() ([]byte, error) {
	return yaml.Marshal(c)
}

// UnmarshalYAML decodes a hex color: #rgb, #rrggbb or #rrggbbaa.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHexColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the color as hex, with an alpha byte only when the
// color is not opaque.
func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// Hex returns the color as #rrggbb or #rrggbbaa.
func (c Color) Hex() string {
	hex := colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}.Clamped().Hex()
	if c.A < 1 {
		hex += fmt.Sprintf("%02x", channel8(c.A))
	}
	return hex
}

// ParseHexColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (Color, error) {
	alpha := float32(1)
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("fractal: color %q: %w", s, err)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}
	cc, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("fractal: color %q: %w", s, err)
	}
	return Color{R: float32(cc.R), G: float32(cc.G), B: float32(cc.B), A: alpha}, nil
}
