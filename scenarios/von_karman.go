package scenarios

import (
	lattelab "github.com/gustavoverneck/lattelab"
)

// VonKarman builds a 2D vortex street: a solid cylinder a quarter of the way
// into the channel, prescribed-equilibrium inflow and outflow columns, and
// solid top and bottom walls.
func VonKarman(p Params) (*lattelab.LBM, int, error) {
	p = p.fill(Params{Nx: 256, Ny: 128, Nz: 1, Viscosity: 0.01, U0: 0.1, Steps: 10000})

	lbm, err := lattelab.New(p.Nx, p.Ny, p.Nz, lattelab.D2Q9, p.Viscosity, p.Precision)
	if err != nil {
		return nil, 0, err
	}
	nx, ny := p.Nx, p.Ny
	u0 := p.U0
	radius := float64(nx) * 0.08
	cx, cy := nx/4, ny/2
	err = lbm.SetConditions(func(lbm *lattelab.LBM, x, y, z, n int) {
		dx := float64(x - cx)
		dy := float64(y - cy)
		switch {
		case dx*dx+dy*dy <= radius*radius:
			lbm.Flags[n] = lattelab.FlagSolid
		case x == 0 || x == nx-1:
			// Outflow stays prescribed at the inflow velocity to damp
			// reflections.
			lbm.Flags[n] = lattelab.FlagEq
			lbm.Rho[n] = 1.0
			lbm.U[3*n] = u0
		case y == 0 || y == ny-1:
			lbm.Flags[n] = lattelab.FlagSolid
		default:
			lbm.Flags[n] = lattelab.FlagFluid
			lbm.Rho[n] = 1.0
			lbm.U[3*n] = u0
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return lbm, p.Steps, nil
}
