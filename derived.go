package lattelab

import "math"

// Derived fields computed on the host from the downloaded velocity, using
// second-order central differences with periodic wrap (matching the periodic
// streaming of the solver).

// velGrad returns d(u_i)/d(x_j) at (x, y, z) for component i and axis j.
func (lbm *LBM) velGrad(x, y, z, i, j int) float32 {
	var xm, xp, ym, yp, zm, zp int = x, x, y, y, z, z
	switch j {
	case 0:
		xm, xp = wrap(x-1, lbm.Nx), wrap(x+1, lbm.Nx)
	case 1:
		ym, yp = wrap(y-1, lbm.Ny), wrap(y+1, lbm.Ny)
	case 2:
		zm, zp = wrap(z-1, lbm.Nz), wrap(z+1, lbm.Nz)
	}
	hi := lbm.U[3*nFromXYZ(xp, yp, zp, lbm.Nx, lbm.Ny)+i]
	lo := lbm.U[3*nFromXYZ(xm, ym, zm, lbm.Nx, lbm.Ny)+i]
	return (hi - lo) / 2
}

// Vorticity returns the curl of the velocity at (x, y, z).
func (lbm *LBM) Vorticity(x, y, z int) (wx, wy, wz float32) {
	dwDy := lbm.velGrad(x, y, z, 2, 1)
	dvDz := lbm.velGrad(x, y, z, 1, 2)
	duDz := lbm.velGrad(x, y, z, 0, 2)
	dwDx := lbm.velGrad(x, y, z, 2, 0)
	dvDx := lbm.velGrad(x, y, z, 1, 0)
	duDy := lbm.velGrad(x, y, z, 0, 1)
	return dwDy - dvDz, duDz - dwDx, dvDx - duDy
}

// VorticityMagnitude returns |curl u| at (x, y, z).
func (lbm *LBM) VorticityMagnitude(x, y, z int) float32 {
	wx, wy, wz := lbm.Vorticity(x, y, z)
	return float32(math.Sqrt(float64(wx*wx + wy*wy + wz*wz)))
}

// QCriterion returns Q = (|W|^2 - |S|^2) / 2, where S and W are the
// symmetric and antisymmetric parts of the velocity gradient. Positive
// values mark rotation-dominated regions.
func (lbm *LBM) QCriterion(x, y, z int) float32 {
	duDx := lbm.velGrad(x, y, z, 0, 0)
	duDy := lbm.velGrad(x, y, z, 0, 1)
	duDz := lbm.velGrad(x, y, z, 0, 2)
	dvDx := lbm.velGrad(x, y, z, 1, 0)
	dvDy := lbm.velGrad(x, y, z, 1, 1)
	dvDz := lbm.velGrad(x, y, z, 1, 2)
	dwDx := lbm.velGrad(x, y, z, 2, 0)
	dwDy := lbm.velGrad(x, y, z, 2, 1)
	dwDz := lbm.velGrad(x, y, z, 2, 2)

	sxy := (duDy + dvDx) / 2
	sxz := (duDz + dwDx) / 2
	syz := (dvDz + dwDy) / 2
	wxy := (duDy - dvDx) / 2
	wxz := (duDz - dwDx) / 2
	wyz := (dvDz - dwDy) / 2

	sNorm := duDx*duDx + dvDy*dvDy + dwDz*dwDz + 2*(sxy*sxy+sxz*sxz+syz*syz)
	wNorm := 2 * (wxy*wxy + wxz*wxz + wyz*wyz)
	return (wNorm - sNorm) / 2
}
