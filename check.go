package lattelab

import (
	"fmt"
	"math"
)

// checkPainted validates the painter output before the device upload.
func (lbm *LBM) checkPainted() error {
	for n := 0; n < lbm.N; n++ {
		flag := lbm.Flags[n]
		switch flag {
		case FlagFluid, FlagSolid, FlagEq:
		default:
			x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
			return fmt.Errorf("node (%d,%d,%d): unknown flag %d", x, y, z, flag)
		}
		if flag != FlagSolid && lbm.Rho[n] <= 0 {
			x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
			return fmt.Errorf("node (%d,%d,%d): density %v must be positive on non-solid nodes",
				x, y, z, lbm.Rho[n])
		}
		if lbm.D == 2 && lbm.U[3*n+2] != 0 {
			x, y, _ := xyzFromN(n, lbm.Nx, lbm.Ny)
			return fmt.Errorf("node (%d,%d): z velocity must be zero for 2D models", x, y)
		}
	}
	return nil
}

// checkDivergence scans the downloaded macroscopic fields for NaN or Inf and
// reports the first offending node. step is the step index of the download.
func (lbm *LBM) checkDivergence(step int) error {
	bad := func(v float32) bool {
		f := float64(v)
		return math.IsNaN(f) || math.IsInf(f, 0)
	}
	for n := 0; n < lbm.N; n++ {
		if bad(lbm.Rho[n]) || bad(lbm.U[3*n]) || bad(lbm.U[3*n+1]) || bad(lbm.U[3*n+2]) {
			x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
			return fmt.Errorf("simulation diverged at step %d: non-finite rho/u at node %d (%d,%d,%d)",
				step, n, x, y, z)
		}
	}
	return nil
}

// compareWithShadow checks the device download against the lockstep CPU
// mirror within tol, reporting the first mismatch.
func (lbm *LBM) compareWithShadow(step int, tol float32) error {
	sh := lbm.shadow
	if sh == nil {
		return nil
	}
	for n := 0; n < lbm.N; n++ {
		if diff := lbm.Rho[n] - sh.rho[n]; diff > tol || diff < -tol {
			x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
			return fmt.Errorf("verify: rho mismatch at step %d node (%d,%d,%d): device=%v host=%v",
				step, x, y, z, lbm.Rho[n], sh.rho[n])
		}
		for d := 0; d < 3; d++ {
			if diff := lbm.U[3*n+d] - sh.u[3*n+d]; diff > tol || diff < -tol {
				x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
				return fmt.Errorf("verify: u[%d] mismatch at step %d node (%d,%d,%d): device=%v host=%v",
					d, step, x, y, z, lbm.U[3*n+d], sh.u[3*n+d])
			}
		}
	}
	return nil
}
