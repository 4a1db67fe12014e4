package scenarios

import (
	lattelab "github.com/gustavoverneck/lattelab"
)

// Quiescent builds an all-fluid periodic domain at rest: uniform density 1
// and zero velocity. Useful as a stability smoke test for any model.
func Quiescent(model lattelab.Model, p Params) (*lattelab.LBM, int, error) {
	def := Params{Nx: 32, Ny: 32, Nz: 1, Viscosity: 0.1, Steps: 200}
	if model != lattelab.D2Q9 {
		def = Params{Nx: 8, Ny: 8, Nz: 8, Viscosity: 0.1, Steps: 200}
	}
	p = p.fill(def)

	lbm, err := lattelab.New(p.Nx, p.Ny, p.Nz, model, p.Viscosity, p.Precision)
	if err != nil {
		return nil, 0, err
	}
	err = lbm.SetConditions(func(lbm *lattelab.LBM, x, y, z, n int) {
		lbm.Flags[n] = lattelab.FlagFluid
		lbm.Rho[n] = 1.0
		lbm.U[3*n] = 0
		lbm.U[3*n+1] = 0
		lbm.U[3*n+2] = 0
	})
	if err != nil {
		return nil, 0, err
	}
	return lbm, p.Steps, nil
}
