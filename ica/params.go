package ica

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by parameter validation and sessions.
var (
	ErrInvalidParams  = errors.New("ica: invalid parameters")
	ErrNotInitialized = errors.New("ica: session not initialized")
	ErrClosed         = errors.New("ica: session shut down")
)

// Implementation selects the ICA algorithm.
type Implementation int

const (
	// FastICA is the symmetric fixed-point algorithm.
	FastICA Implementation = iota
	// JADE is joint approximate diagonalization of eigenmatrices.
	JADE
)

func (i Implementation) String() string {
	switch i {
	case FastICA:
		return "fastica"
	case JADE:
		return "jade"
	default:
		return fmt.Sprintf("Implementation(%d)", int(i))
	}
}

// ParseImplementation parses "fastica" or "jade" (case-insensitive).
func ParseImplementation(s string) (Implementation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fastica":
		return FastICA, nil
	case "jade":
		return JADE, nil
	}
	return 0, fmt.Errorf("%w: unknown implementation %q", ErrInvalidParams, s)
}

// MarshalText implements encoding.TextMarshaler.
func (i Implementation) MarshalText() ([]byte, error) {
	if i != FastICA && i != JADE {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, i)
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Implementation) UnmarshalText(text []byte) error {
	v, err := ParseImplementation(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Contrast selects the FastICA nonlinearity.
type Contrast int

const (
	// Tanh uses g(x) = tanh(x).
	Tanh Contrast = iota
	// Cube uses g(x) = x³.
	Cube
	// Gauss uses g(x) = x·exp(-x²/2).
	Gauss
)

func (c Contrast) String() string {
	switch c {
	case Tanh:
		return "tanh"
	case Cube:
		return "cube"
	case Gauss:
		return "gauss"
	default:
		return fmt.Sprintf("Contrast(%d)", int(c))
	}
}

// ParseContrast parses "tanh", "cube" or "gauss" (case-insensitive).
func ParseContrast(s string) (Contrast, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tanh":
		return Tanh, nil
	case "cube":
		return Cube, nil
	case "gauss":
		return Gauss, nil
	}
	return 0, fmt.Errorf("%w: unknown contrast %q", ErrInvalidParams, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Contrast) MarshalText() ([]byte, error) {
	if c < Tanh || c > Gauss {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Contrast) UnmarshalText(text []byte) error {
	v, err := ParseContrast(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Params configures an ICA run.
type Params struct {
	Implementation Implementation
	// Contrast is only used by FastICA.
	Contrast Contrast
	// Epsilon is the FastICA convergence tolerance on 1 - min|cos|.
	Epsilon float64
	// MaxIterations bounds the FastICA iteration count.
	MaxIterations int
	// NumVariables and NumObservations size the workspace. Zero defers
	// sizing to the first Run.
	NumVariables    int
	NumObservations int
	// UseGPU and GPUDevice are accepted for configuration compatibility and
	// otherwise ignored.
	UseGPU    bool
	GPUDevice int
}

// Option mutates Params.
type Option func(*Params)

// DefaultParams returns FastICA with the tanh contrast, epsilon 1e-4 and at
// most 400 iterations.
func DefaultParams() Params {
	return Params{
		Implementation: FastICA,
		Contrast:       Tanh,
		Epsilon:        1e-4,
		MaxIterations:  400,
		GPUDevice:      1,
	}
}

// WithImplementation selects the algorithm.
func WithImplementation(impl Implementation) Option {
	return func(p *Params) {
		p.Implementation = impl
	}
}

// WithContrast selects the FastICA nonlinearity.
func WithContrast(c Contrast) Option {
	return func(p *Params) {
		p.Contrast = c
	}
}

// WithEpsilon sets the convergence tolerance. Non-positive values are ignored.
func WithEpsilon(eps float64) Option {
	return func(p *Params) {
		if eps > 0 {
			p.Epsilon = eps
		}
	}
}

// WithMaxIterations sets the iteration bound. Non-positive values are ignored.
func WithMaxIterations(n int) Option {
	return func(p *Params) {
		if n > 0 {
			p.MaxIterations = n
		}
	}
}

// WithDimensions presizes the workspace.
func WithDimensions(variables, observations int) Option {
	return func(p *Params) {
		p.NumVariables = variables
		p.NumObservations = observations
	}
}

// NewParams applies opts to DefaultParams.
func NewParams(opts ...Option) Params {
	p := DefaultParams()
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

// Validate reports whether p describes a runnable configuration.
func (p Params) Validate() error {
	switch {
	case p.Implementation != FastICA && p.Implementation != JADE:
		return fmt.Errorf("%w: implementation %v", ErrInvalidParams, p.Implementation)
	case p.Contrast < Tanh || p.Contrast > Gauss:
		return fmt.Errorf("%w: contrast %v", ErrInvalidParams, p.Contrast)
	case !(p.Epsilon > 0):
		return fmt.Errorf("%w: epsilon %g", ErrInvalidParams, p.Epsilon)
	case p.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, p.MaxIterations)
	case p.NumVariables < 0 || p.NumObservations < 0:
		return fmt.Errorf("%w: dimensions %d×%d", ErrInvalidParams, p.NumVariables, p.NumObservations)
	case p.NumVariables > 0 && p.NumObservations < 2:
		return fmt.Errorf("%w: %d observations", ErrInvalidParams, p.NumObservations)
	}
	return nil
}

// withDims returns p resized to the given observation shape.
func (p Params) withDims(variables, observations int) Params {
	p.NumVariables = variables
	p.NumObservations = observations
	return p
}
