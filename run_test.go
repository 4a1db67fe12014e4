package lattelab

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// An end-to-end host-backend run: frames appear at positive multiples of the
// output interval and the fields stay finite.
func TestRunWithScheduledOutput(t *testing.T) {
	lbm, err := New(16, 16, 1, D2Q9, 0.1, FP32)
	if err != nil {
		t.Fatal(err)
	}
	lbm.SetBackend(BackendHost)
	dir := t.TempDir()
	lbm.SetOutputDir(dir)
	lbm.SetOutputCSV(true)
	lbm.SetOutputInterval(5)

	if err := lbm.Run(12); err != nil {
		t.Fatal(err)
	}
	if lbm.StateOf() != StateStopped {
		t.Errorf("state after Run = %v", lbm.StateOf())
	}

	// Steps run 0..11; frames at t=5 and t=10, none at t=0.
	for _, name := range []string{"data_05.csv", "data_10.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected frame %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "data_00.csv")); err == nil {
		t.Error("frame emitted at step 0")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output directory holds %d files, want 2", len(entries))
	}
}

func TestRunCancellation(t *testing.T) {
	lbm, err := New(16, 16, 1, D2Q9, 0.1, FP32)
	if err != nil {
		t.Fatal(err)
	}
	lbm.SetBackend(BackendHost)
	lbm.Cancel()
	if err := lbm.Run(1000); err != nil {
		t.Fatal(err)
	}
	// Cancelled before the first launch: the fields still hold the painted
	// state.
	for n := range lbm.Rho {
		if lbm.Rho[n] != 1.0 {
			t.Fatalf("rho changed after cancelled run: %v", lbm.Rho[n])
		}
	}
}

// The verify mode compares a lockstep CPU mirror against the backend. With
// both sides on the host stepper the comparison must pass trivially; here we
// exercise the comparison plumbing directly.
func TestCompareWithShadow(t *testing.T) {
	lbm, err := New(8, 8, 1, D2Q9, 0.1, FP32)
	if err != nil {
		t.Fatal(err)
	}
	lbm.shadow = newHostStepper(lbm)
	if err := lbm.compareWithShadow(0, 1e-4); err != nil {
		t.Fatalf("identical states failed verification: %v", err)
	}
	lbm.Rho[10] += 1
	if err := lbm.compareWithShadow(0, 1e-4); err == nil {
		t.Fatal("diverged states passed verification")
	}
}

func TestCheckDivergence(t *testing.T) {
	lbm, err := New(8, 8, 1, D2Q9, 0.1, FP32)
	if err != nil {
		t.Fatal(err)
	}
	if err := lbm.checkDivergence(0); err != nil {
		t.Fatalf("finite fields reported as diverged: %v", err)
	}
	lbm.U[3*13] = float32(math.NaN())
	err = lbm.checkDivergence(7)
	if err == nil {
		t.Fatal("NaN velocity not detected")
	}
	if !strings.Contains(err.Error(), "step 7") {
		t.Errorf("divergence error %q does not name the step", err)
	}
}
