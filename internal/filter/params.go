package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidImage reports an image that is nil, empty, undecodable
	// or has the wrong channel count for the requested filter.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidParams reports an unknown filter or an out-of-range parameter.
	ErrInvalidParams = errors.New("invalid params")
)

// Parameter ranges and defaults.
const (
	MinLowThreshold     = 0
	MaxLowThreshold     = 100
	DefaultLowThreshold = 50

	MinHighThreshold     = 100
	MaxHighThreshold     = 300
	DefaultHighThreshold = 150

	MinKernelSize     = 1
	MaxKernelSize     = 15
	DefaultKernelSize = 5
)

// Params carries the numeric configuration of the filters that take any.
// Fields not used by a filter are ignored.
type Params struct {
	// LowThreshold is the EdgeDetect weak-edge threshold (0-100).
	LowThreshold int `json:"low_threshold"`

	// HighThreshold is the EdgeDetect strong-edge threshold (100-300).
	// It must be greater than LowThreshold.
	HighThreshold int `json:"high_threshold"`

	// KernelSize is the Blur kernel side length: odd, 1-15.
	KernelSize int `json:"kernel_size"`
}

// DefaultParams returns the default value of every parameter.
func DefaultParams() Params {
	return Params{
		LowThreshold:  DefaultLowThreshold,
		HighThreshold: DefaultHighThreshold,
		KernelSize:    DefaultKernelSize,
	}
}

// Validate checks the parameters used by kind. Parameters belonging to
// other filters are not inspected.
func (p Params) Validate(kind Kind) error {
	switch kind {
	case EdgeDetect:
		if p.LowThreshold < MinLowThreshold || p.LowThreshold > MaxLowThreshold {
			return fmt.Errorf("%w: low_threshold %d outside [%d,%d]",
				ErrInvalidParams, p.LowThreshold, MinLowThreshold, MaxLowThreshold)
		}
		if p.HighThreshold < MinHighThreshold || p.HighThreshold > MaxHighThreshold {
			return fmt.Errorf("%w: high_threshold %d outside [%d,%d]",
				ErrInvalidParams, p.HighThreshold, MinHighThreshold, MaxHighThreshold)
		}
		if p.HighThreshold <= p.LowThreshold {
			return fmt.Errorf("%w: high_threshold %d must be greater than low_threshold %d",
				ErrInvalidParams, p.HighThreshold, p.LowThreshold)
		}
	case Blur:
		if p.KernelSize < MinKernelSize || p.KernelSize > MaxKernelSize {
			return fmt.Errorf("%w: kernel_size %d outside [%d,%d]",
				ErrInvalidParams, p.KernelSize, MinKernelSize, MaxKernelSize)
		}
		if p.KernelSize%2 == 0 {
			return fmt.Errorf("%w: kernel_size %d must be odd", ErrInvalidParams, p.KernelSize)
		}
	case Grayscale, Sepia, Invert, Sketch:
	default:
		return fmt.Errorf("%w: unknown filter %s", ErrInvalidParams, kind)
	}
	return nil
}
