// Package scenarios provides the example geometry painters and recommended
// run parameters for the stock LatteLab cases. Each constructor returns a
// configured solver and a suggested step count; callers still own output
// configuration and the Run call.
package scenarios

import (
	lattelab "github.com/gustavoverneck/lattelab"
)

// Params overrides a scenario's defaults. Zero-valued fields keep the
// scenario default.
type Params struct {
	Nx, Ny, Nz int
	Viscosity  float32
	U0         float32
	Steps      int
	Precision  lattelab.Precision
}

// fill replaces zero-valued fields with the scenario defaults. Precision is
// taken as-is: FP32 is both the zero value and the default.
func (p Params) fill(def Params) Params {
	if p.Nx == 0 {
		p.Nx = def.Nx
	}
	if p.Ny == 0 {
		p.Ny = def.Ny
	}
	if p.Nz == 0 {
		p.Nz = def.Nz
	}
	if p.Viscosity == 0 {
		p.Viscosity = def.Viscosity
	}
	if p.U0 == 0 {
		p.U0 = def.U0
	}
	if p.Steps == 0 {
		p.Steps = def.Steps
	}
	return p
}
