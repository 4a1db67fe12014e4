package scenarios

import (
	lattelab "github.com/gustavoverneck/lattelab"
)

// Poiseuille builds a 2D channel: solid top and bottom rows, a
// prescribed-equilibrium inlet and outlet at U0, and fluid interior
// initialized to the same plug velocity.
func Poiseuille(p Params) (*lattelab.LBM, int, error) {
	p = p.fill(Params{Nx: 512, Ny: 128, Nz: 1, Viscosity: 0.1, U0: 0.1, Steps: 100000})

	lbm, err := lattelab.New(p.Nx, p.Ny, p.Nz, lattelab.D2Q9, p.Viscosity, p.Precision)
	if err != nil {
		return nil, 0, err
	}
	nx, ny := p.Nx, p.Ny
	u0 := p.U0
	err = lbm.SetConditions(func(lbm *lattelab.LBM, x, y, z, n int) {
		lbm.Rho[n] = 1.0
		switch {
		case y == 0 || y == ny-1:
			lbm.Flags[n] = lattelab.FlagSolid
		case x == 0 || x == nx-1:
			lbm.Flags[n] = lattelab.FlagEq
			lbm.U[3*n] = u0
		default:
			lbm.Flags[n] = lattelab.FlagFluid
			lbm.U[3*n] = u0
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return lbm, p.Steps, nil
}

// Couette builds a 2D shear channel: stationary solid bottom wall and a
// prescribed-equilibrium top lid moving in +x at U0.
func Couette(p Params) (*lattelab.LBM, int, error) {
	p = p.fill(Params{Nx: 256, Ny: 64, Nz: 1, Viscosity: 0.05, U0: 0.1, Steps: 20000})

	lbm, err := lattelab.New(p.Nx, p.Ny, p.Nz, lattelab.D2Q9, p.Viscosity, p.Precision)
	if err != nil {
		return nil, 0, err
	}
	ny := p.Ny
	u0 := p.U0
	err = lbm.SetConditions(func(lbm *lattelab.LBM, x, y, z, n int) {
		lbm.Rho[n] = 1.0
		switch {
		case y == 0:
			lbm.Flags[n] = lattelab.FlagSolid
		case y == ny-1:
			lbm.Flags[n] = lattelab.FlagEq
			lbm.U[3*n] = u0
		default:
			lbm.Flags[n] = lattelab.FlagFluid
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return lbm, p.Steps, nil
}
