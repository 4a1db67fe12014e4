package scenarios

import (
	"math"

	lattelab "github.com/gustavoverneck/lattelab"
)

// TaylorGreen builds the 2D Taylor-Green vortex: an all-fluid periodic
// domain seeded with a decaying vortex array of amplitude U0.
func TaylorGreen(p Params) (*lattelab.LBM, int, error) {
	p = p.fill(Params{Nx: 128, Ny: 128, Nz: 1, Viscosity: 0.01, U0: 0.1, Steps: 10000})

	lbm, err := lattelab.New(p.Nx, p.Ny, p.Nz, lattelab.D2Q9, p.Viscosity, p.Precision)
	if err != nil {
		return nil, 0, err
	}
	lx := float64(p.Nx)
	ly := float64(p.Ny)
	u0 := float64(p.U0)
	err = lbm.SetConditions(func(lbm *lattelab.LBM, x, y, z, n int) {
		fx := 2 * math.Pi * float64(x) / lx
		fy := 2 * math.Pi * float64(y) / ly
		lbm.Flags[n] = lattelab.FlagFluid
		lbm.Rho[n] = 1.0
		lbm.U[3*n] = float32(-u0 * math.Cos(fx) * math.Sin(fy))
		lbm.U[3*n+1] = float32(u0 * math.Sin(fx) * math.Cos(fy))
	})
	if err != nil {
		return nil, 0, err
	}
	return lbm, p.Steps, nil
}
