package lattelab

import (
	"bufio"
	"fmt"
	"os"
)

// ensureOutputDir creates the output directory if it is missing.
func (lbm *LBM) ensureOutputDir() error {
	if err := os.MkdirAll(lbm.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", lbm.outputDir, err)
	}
	return nil
}

// WriteCSV exports the current host state: one row per node with the fixed
// column order x, y, z, rho, ux, uy, uz, v, q.
func (lbm *LBM) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "x, y, z, rho,      ux,       uy,       uz,       v,       q")
	for n := 0; n < lbm.N; n++ {
		x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
		vort := lbm.VorticityMagnitude(x, y, z)
		qc := lbm.QCriterion(x, y, z)
		fmt.Fprintf(w, "%d, %d, %d, %.6f, %.6f, %.6f, %.6f, %.6f, %.6f\n",
			x, y, z, lbm.Rho[n], lbm.U[3*n], lbm.U[3*n+1], lbm.U[3*n+2], vort, qc)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// WriteVTK exports the current host state as a legacy ASCII VTK
// structured-points dataset with density, velocity, Q-criterion and
// vorticity point data.
func (lbm *LBM) WriteVTK(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(file)

	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, "LatteLab simulation output")
	fmt.Fprintln(w, "ASCII")
	fmt.Fprintln(w, "DATASET STRUCTURED_POINTS")
	fmt.Fprintf(w, "DIMENSIONS %d %d %d\n", lbm.Nx, lbm.Ny, lbm.Nz)
	fmt.Fprintln(w, "ORIGIN 0 0 0")
	fmt.Fprintln(w, "SPACING 1 1 1")
	fmt.Fprintf(w, "POINT_DATA %d\n", lbm.N)

	fmt.Fprintln(w, "SCALARS density float")
	fmt.Fprintln(w, "LOOKUP_TABLE default")
	for n := 0; n < lbm.N; n++ {
		fmt.Fprintf(w, "%.6f\n", lbm.Rho[n])
	}

	fmt.Fprintln(w, "VECTORS velocity float")
	for n := 0; n < lbm.N; n++ {
		fmt.Fprintf(w, "%.6f %.6f %.6f\n", lbm.U[3*n], lbm.U[3*n+1], lbm.U[3*n+2])
	}

	fmt.Fprintln(w, "SCALARS q_criterion float")
	fmt.Fprintln(w, "LOOKUP_TABLE default")
	for n := 0; n < lbm.N; n++ {
		x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
		fmt.Fprintf(w, "%.6f\n", lbm.QCriterion(x, y, z))
	}

	fmt.Fprintln(w, "VECTORS vorticity float")
	for n := 0; n < lbm.N; n++ {
		x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
		wx, wy, wz := lbm.Vorticity(x, y, z)
		fmt.Fprintf(w, "%.6f %.6f %.6f\n", wx, wy, wz)
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
