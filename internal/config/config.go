package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultR        = 10.0
	DefaultL        = 100e-3
	DefaultC        = 100e-6
	DefaultDt       = 1e-4
	DefaultDuration = 0.5
	DefaultCharge   = 100e-6
	DefaultKp       = 0.5
	DefaultKi       = 50.0
	DefaultKd       = 0.0
)

const (
	ModelRLC              = "rlc"
	ModelTransferFunction = "tf"
)

var DefaultPoles = []string{"-20+10i", "-20-10i"}

type Config struct {
	Model            string                 `yaml:"model"`
	Circuit          CircuitConfig          `yaml:"circuit"`
	TransferFunction TransferFunctionConfig `yaml:"transfer_function"`
	Poles            []string               `yaml:"poles"`
	Simulation       SimulationConfig       `yaml:"simulation"`
}

// CircuitConfig holds series RLC parameters in ohms, henries and farads.
type CircuitConfig struct {
	R float64 `yaml:"r"`
	L float64 `yaml:"l"`
	C float64 `yaml:"c"`
}

// TransferFunctionConfig holds polynomial coefficients, highest power first.
type TransferFunctionConfig struct {
	Num []float64 `yaml:"num"`
	Den []float64 `yaml:"den"`
}

type SimulationConfig struct {
	Integrator string    `yaml:"integrator"`
	Controller string    `yaml:"controller"`
	Dt         float64   `yaml:"dt"`
	Duration   float64   `yaml:"duration"`
	Adaptive   bool      `yaml:"adaptive"`
	Tolerance  float64   `yaml:"tolerance"`
	InitState  []float64 `yaml:"init_state"`
	Reference  float64   `yaml:"reference"`
	PID        PIDConfig `yaml:"pid"`
}

type PIDConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: ModelRLC,
		Circuit: CircuitConfig{
			R: DefaultR,
			L: DefaultL,
			C: DefaultC,
		},
		Poles: append([]string(nil), DefaultPoles...),
		Simulation: SimulationConfig{
			Integrator: "rk4",
			Controller: "feedback",
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Tolerance:  1e-6,
			InitState:  []float64{0, DefaultCharge},
			PID: PIDConfig{
				Kp: DefaultKp,
				Ki: DefaultKi,
				Kd: DefaultKd,
			},
		},
	}
}

// Load reads a design file over the defaults. A file without init_state
// starts an rlc circuit with the default capacitor charge and any other
// model from rest.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Simulation.InitState = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Simulation.InitState) == 0 {
		cfg.Simulation.InitState = nil
		if cfg.Model == ModelRLC {
			cfg.Simulation.InitState = []float64{0, DefaultCharge}
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields every command relies on. Simulation settings
// are validated by the simulator itself.
func (c *Config) Validate() error {
	switch c.Model {
	case ModelRLC:
		if c.Circuit.L <= 0 || c.Circuit.C <= 0 || c.Circuit.R < 0 {
			return fmt.Errorf("circuit r=%g l=%g c=%g: l and c must be positive, r non-negative",
				c.Circuit.R, c.Circuit.L, c.Circuit.C)
		}
	case ModelTransferFunction:
		if len(c.TransferFunction.Den) < 2 {
			return fmt.Errorf("transfer function needs a denominator of degree >= 1")
		}
	default:
		return fmt.Errorf("unknown model: %q", c.Model)
	}
	_, err := c.ParsePoles()
	return err
}

// ParsePoles converts the configured pole strings to complex numbers.
func (c *Config) ParsePoles() ([]complex128, error) {
	return ParsePoles(c.Poles)
}

// ParsePoles accepts Go complex literals ("-20+10i") and the engineering
// "j" suffix ("-20+10j"); spaces are ignored.
func ParsePoles(values []string) ([]complex128, error) {
	poles := make([]complex128, 0, len(values))
	for _, v := range values {
		p, err := ParsePole(v)
		if err != nil {
			return nil, err
		}
		poles = append(poles, p)
	}
	return poles, nil
}

func ParsePole(s string) (complex128, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	clean = strings.ReplaceAll(clean, "j", "i")
	p, err := strconv.ParseComplex(clean, 128)
	if err != nil {
		return 0, fmt.Errorf("invalid pole %q: %w", s, err)
	}
	return p, nil
}

func FormatPole(p complex128) string {
	switch {
	case imag(p) == 0:
		return strconv.FormatFloat(real(p), 'g', -1, 64)
	case imag(p) < 0:
		return fmt.Sprintf("%s-%si", strconv.FormatFloat(real(p), 'g', -1, 64), strconv.FormatFloat(-imag(p), 'g', -1, 64))
	default:
		return fmt.Sprintf("%s+%si", strconv.FormatFloat(real(p), 'g', -1, 64), strconv.FormatFloat(imag(p), 'g', -1, 64))
	}
}

func FormatPoles(poles []complex128) []string {
	out := make([]string, len(poles))
	for i, p := range poles {
		out[i] = FormatPole(p)
	}
	return out
}
