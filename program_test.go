package lattelab

import (
	"fmt"
	"strings"
	"testing"
)

func TestProgramSourceDefines(t *testing.T) {
	for _, model := range allModels {
		for _, prec := range []Precision{FP32, FP16S, FP16C} {
			lbm, err := New(6, 5, boolToDepth(model), model, 0.1, prec)
			if err != nil {
				t.Fatal(err)
			}
			src := lbm.programSource()

			for _, want := range []string{
				"#define NX 6",
				"#define NY 5",
				fmt.Sprintf("#define N %d", lbm.N),
				fmt.Sprintf("#define Q %d", lbm.Q),
				fmt.Sprintf("#define D %d", lbm.D),
				fmt.Sprintf("#define %s\n", model),
				fmt.Sprintf("#define %s\n", prec),
				"#define FLAG_FLUID 0",
				"#define FLAG_SOLID 1",
				"#define FLAG_EQ 2",
				fmt.Sprintf("constant int c[%d][3]", lbm.Q),
				fmt.Sprintf("constant float w[%d]", lbm.Q),
				fmt.Sprintf("constant int opposite[%d]", lbm.Q),
				"__kernel void equilibrium(",
				"__kernel void stream_collide(",
			} {
				if !strings.Contains(src, want) {
					t.Errorf("%v/%v: program source missing %q", model, prec, want)
				}
			}
		}
	}
}

func boolToDepth(model Model) int {
	if model == D2Q9 {
		return 1
	}
	return 4
}

func TestProgramSourceHalfPrecision(t *testing.T) {
	lbm, _ := New(8, 8, 1, D2Q9, 0.1, FP16S)
	src := lbm.programSource()
	if !strings.Contains(src, "cl_khr_fp16") {
		t.Error("FP16S program does not enable cl_khr_fp16")
	}
	if !strings.Contains(src, "vload_half") || !strings.Contains(src, "vstore_half_rte") {
		t.Error("FP16S program does not lift half loads/stores through float")
	}

	full, _ := New(8, 8, 1, D2Q9, 0.1, FP32)
	if strings.Contains(full.programSource(), "#define FP16") {
		t.Error("FP32 program defines a half-precision token")
	}
}

func TestVelocitySetSourceOppositeTable(t *testing.T) {
	lat, _ := latticeFor(D2Q9)
	src := velocitySetSource(lat)
	if !strings.Contains(src, "{0, 2, 1, 4, 3, 6, 5, 8, 7}") {
		t.Errorf("D2Q9 opposite table not emitted as expected:\n%s", src)
	}
	if !strings.Contains(src, "{1, 1, 0}") {
		t.Error("D2Q9 diagonal direction missing from c table")
	}
}

func TestVelocitySetSourceWeightsParse(t *testing.T) {
	// The emitted weight literals must reproduce the host values exactly.
	lat, _ := latticeFor(D3Q27)
	src := velocitySetSource(lat)
	for _, wq := range lat.w {
		lit := fmt.Sprintf("%.9e", wq)
		if !strings.Contains(src, lit) {
			t.Errorf("weight %v not found as literal %q", wq, lit)
		}
	}
}
