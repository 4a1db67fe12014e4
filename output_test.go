package lattelab

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	lbm, err := New(4, 3, 1, D2Q9, 0.1, FP32)
	if err != nil {
		t.Fatal(err)
	}
	lbm.Rho[5] = 1.25
	lbm.U[3*5] = 0.125

	path := filepath.Join(t.TempDir(), "frame.csv")
	if err := lbm.WriteCSV(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != lbm.N+1 {
		t.Fatalf("CSV has %d lines, want %d", len(lines), lbm.N+1)
	}
	if !strings.HasPrefix(lines[0], "x, y, z, rho,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	// Node 5 is (1, 1, 0).
	row := lines[6]
	if !strings.HasPrefix(row, "1, 1, 0, 1.250000, 0.125000,") {
		t.Errorf("unexpected row for node 5: %q", row)
	}
}

func TestWriteVTK(t *testing.T) {
	lbm, err := New(3, 3, 2, D3Q19, 0.1, FP32)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "frame.vtk")
	if err := lbm.WriteVTK(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		"# vtk DataFile Version 3.0",
		"ASCII",
		"DATASET STRUCTURED_POINTS",
		"DIMENSIONS 3 3 2",
		"ORIGIN 0 0 0",
		"SPACING 1 1 1",
		"POINT_DATA 18",
		"SCALARS density float",
		"LOOKUP_TABLE default",
		"VECTORS velocity float",
		"SCALARS q_criterion float",
		"VECTORS vorticity float",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("VTK output missing %q", want)
		}
	}
	// 18 density lines of uniform 1.0.
	if got := strings.Count(text, "\n1.000000\n") + strings.Count(text, "\n1.000000\n"); got == 0 {
		t.Error("VTK output carries no density values")
	}
}

func TestExportFrameNaming(t *testing.T) {
	lbm, err := New(4, 4, 1, D2Q9, 0.1, FP32)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	lbm.SetOutputDir(dir)
	lbm.SetOutputCSV(true)
	lbm.SetOutputVTK(true)
	lbm.timeSteps = 1000 // pad to four digits

	if err := lbm.exportFrame(30); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"data_0030.csv", "data_0030.vtk"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected frame file %s: %v", name, err)
		}
	}
}

func TestEnsureOutputDir(t *testing.T) {
	lbm, err := New(4, 4, 1, D2Q9, 0.1, FP32)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "nested", "out")
	lbm.SetOutputDir(dir)
	if err := lbm.ensureOutputDir(); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("output directory was not created: %v", err)
	}
	// Creating it again is a no-op.
	if err := lbm.ensureOutputDir(); err != nil {
		t.Fatal(err)
	}
}
