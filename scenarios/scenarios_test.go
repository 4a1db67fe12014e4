package scenarios

import (
	"testing"

	lattelab "github.com/gustavoverneck/lattelab"
)

func nodeAt(lbm *lattelab.LBM, x, y int) int {
	return y*lbm.Nx + x
}

func TestLidDrivenCavityGeometry(t *testing.T) {
	lbm, steps, err := LidDrivenCavity(Params{Nx: 32, Ny: 32, Steps: 100})
	if err != nil {
		t.Fatal(err)
	}
	if steps != 100 {
		t.Errorf("steps = %d, want 100", steps)
	}
	if lbm.Nx != 32 || lbm.Ny != 32 || lbm.Nz != 1 {
		t.Fatalf("grid %dx%dx%d", lbm.Nx, lbm.Ny, lbm.Nz)
	}
	// Top row is the moving lid.
	for x := 0; x < lbm.Nx; x++ {
		n := nodeAt(lbm, x, lbm.Ny-1)
		if lbm.Flags[n] != lattelab.FlagEq {
			t.Fatalf("lid node (%d,%d) flag = %d", x, lbm.Ny-1, lbm.Flags[n])
		}
		if lbm.U[3*n] != 0.1 {
			t.Fatalf("lid node (%d,%d) ux = %v", x, lbm.Ny-1, lbm.U[3*n])
		}
	}
	// Side and bottom walls are solid, interior is fluid.
	if lbm.Flags[nodeAt(lbm, 0, 10)] != lattelab.FlagSolid ||
		lbm.Flags[nodeAt(lbm, lbm.Nx-1, 10)] != lattelab.FlagSolid ||
		lbm.Flags[nodeAt(lbm, 10, 0)] != lattelab.FlagSolid {
		t.Error("cavity walls are not solid")
	}
	if lbm.Flags[nodeAt(lbm, 10, 10)] != lattelab.FlagFluid {
		t.Error("cavity interior is not fluid")
	}
}

func TestPoiseuilleGeometry(t *testing.T) {
	lbm, _, err := Poiseuille(Params{Nx: 64, Ny: 32})
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < lbm.Nx; x++ {
		if lbm.Flags[nodeAt(lbm, x, 0)] != lattelab.FlagSolid ||
			lbm.Flags[nodeAt(lbm, x, lbm.Ny-1)] != lattelab.FlagSolid {
			t.Fatalf("channel wall at x=%d is not solid", x)
		}
	}
	for y := 1; y < lbm.Ny-1; y++ {
		if lbm.Flags[nodeAt(lbm, 0, y)] != lattelab.FlagEq ||
			lbm.Flags[nodeAt(lbm, lbm.Nx-1, y)] != lattelab.FlagEq {
			t.Fatalf("inlet/outlet at y=%d is not prescribed", y)
		}
	}
	n := nodeAt(lbm, lbm.Nx/2, lbm.Ny/2)
	if lbm.Flags[n] != lattelab.FlagFluid || lbm.U[3*n] != 0.1 {
		t.Error("interior is not plug-initialized fluid")
	}
}

func TestCouetteGeometry(t *testing.T) {
	lbm, _, err := Couette(Params{Nx: 32, Ny: 16, U0: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < lbm.Nx; x++ {
		if lbm.Flags[nodeAt(lbm, x, 0)] != lattelab.FlagSolid {
			t.Fatal("bottom wall is not solid")
		}
		top := nodeAt(lbm, x, lbm.Ny-1)
		if lbm.Flags[top] != lattelab.FlagEq || lbm.U[3*top] != 0.05 {
			t.Fatal("top lid is not a prescribed mover")
		}
	}
}

func TestVonKarmanGeometry(t *testing.T) {
	lbm, _, err := VonKarman(Params{Nx: 128, Ny: 64})
	if err != nil {
		t.Fatal(err)
	}
	cx, cy := lbm.Nx/4, lbm.Ny/2
	if lbm.Flags[nodeAt(lbm, cx, cy)] != lattelab.FlagSolid {
		t.Error("cylinder center is not solid")
	}
	solid := 0
	for n := 0; n < lbm.N; n++ {
		if lbm.Flags[n] == lattelab.FlagSolid {
			solid++
		}
	}
	// Cylinder area plus the two walls.
	if solid < 2*lbm.Nx {
		t.Errorf("only %d solid nodes painted", solid)
	}
	if lbm.Flags[nodeAt(lbm, 0, cy)] != lattelab.FlagEq {
		t.Error("inflow column is not prescribed")
	}
}

func TestTaylorGreenGeometry(t *testing.T) {
	lbm, _, err := TaylorGreen(Params{Nx: 32, Ny: 32})
	if err != nil {
		t.Fatal(err)
	}
	for n := 0; n < lbm.N; n++ {
		if lbm.Flags[n] != lattelab.FlagFluid {
			t.Fatal("Taylor-Green domain must be all fluid")
		}
	}
	// The seeded field carries momentum somewhere.
	var maxU float32
	for n := 0; n < lbm.N; n++ {
		if v := lbm.U[3*n]; v > maxU {
			maxU = v
		}
	}
	if maxU < 0.05 {
		t.Errorf("vortex amplitude %v too small", maxU)
	}
}

func TestQuiescentModels(t *testing.T) {
	for _, model := range []lattelab.Model{lattelab.D2Q9, lattelab.D3Q7, lattelab.D3Q15, lattelab.D3Q19, lattelab.D3Q27} {
		lbm, _, err := Quiescent(model, Params{})
		if err != nil {
			t.Fatalf("%v: %v", model, err)
		}
		if model == lattelab.D2Q9 && lbm.Nz != 1 {
			t.Errorf("%v: Nz = %d", model, lbm.Nz)
		}
		if model != lattelab.D2Q9 && lbm.Nz != 8 {
			t.Errorf("%v: Nz = %d, want 8", model, lbm.Nz)
		}
	}
}

func TestParamsOverride(t *testing.T) {
	lbm, steps, err := LidDrivenCavity(Params{Nx: 16, Ny: 16, Viscosity: 0.2, U0: 0.05, Steps: 7})
	if err != nil {
		t.Fatal(err)
	}
	if lbm.Nx != 16 || lbm.Viscosity != 0.2 || steps != 7 {
		t.Errorf("overrides not applied: nx=%d nu=%v steps=%d", lbm.Nx, lbm.Viscosity, steps)
	}
}
