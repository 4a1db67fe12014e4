package scenarios

import (
	lattelab "github.com/gustavoverneck/lattelab"
)

// LidDrivenCavity builds the classic 2D cavity: solid walls on all four
// sides except the top row, which is a prescribed-equilibrium lid moving in
// +x at U0.
func LidDrivenCavity(p Params) (*lattelab.LBM, int, error) {
	p = p.fill(Params{Nx: 128, Ny: 128, Nz: 1, Viscosity: 0.1, U0: 0.1, Steps: 20000})

	lbm, err := lattelab.New(p.Nx, p.Ny, p.Nz, lattelab.D2Q9, p.Viscosity, p.Precision)
	if err != nil {
		return nil, 0, err
	}
	nx, ny := p.Nx, p.Ny
	u0 := p.U0
	err = lbm.SetConditions(func(lbm *lattelab.LBM, x, y, z, n int) {
		lbm.Rho[n] = 1.0
		switch {
		case y == ny-1:
			lbm.Flags[n] = lattelab.FlagEq
			lbm.U[3*n] = u0
		case x == 0 || x == nx-1 || y == 0:
			lbm.Flags[n] = lattelab.FlagSolid
		default:
			lbm.Flags[n] = lattelab.FlagFluid
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return lbm, p.Steps, nil
}
