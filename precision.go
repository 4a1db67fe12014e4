package lattelab

import (
	"fmt"
	"strings"
)

// Precision selects the storage and compute types of the distribution
// buffers. Density and velocity stay float32 in every mode.
type Precision int

const (
	// FP32 stores and computes populations in float32.
	FP32 Precision = iota
	// FP16S stores populations as binary16 and computes in float32.
	FP16S
	// FP16C stores and computes populations in binary16; moment accumulation
	// stays float32.
	FP16C
)

// ParsePrecision converts a mode name (case-insensitive) into a Precision.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToUpper(s) {
	case "FP32":
		return FP32, nil
	case "FP16S":
		return FP16S, nil
	case "FP16C":
		return FP16C, nil
	}
	return 0, fmt.Errorf("invalid precision mode: %q (use FP32, FP16S or FP16C)", s)
}

func (p Precision) String() string {
	switch p {
	case FP32:
		return "FP32"
	case FP16S:
		return "FP16S"
	case FP16C:
		return "FP16C"
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// Description returns the human-readable summary printed at startup.
func (p Precision) Description() string {
	switch p {
	case FP32:
		return "full FP32 precision (maximum accuracy)"
	case FP16S:
		return "FP16 storage, FP32 compute (balanced)"
	case FP16C:
		return "FP16 compute (maximum performance)"
	}
	return "unknown"
}

// storageBytes is the size of one stored population scalar.
func (p Precision) storageBytes() int {
	if p == FP32 {
		return 4
	}
	return 2
}

// halfStorage reports whether populations live in binary16 buffers.
func (p Precision) halfStorage() bool { return p != FP32 }
