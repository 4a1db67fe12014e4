package lattelab

import (
	"fmt"
	"strconv"
	"strings"
)

// programSource assembles the full device program: numeric defines, lattice
// and precision tokens, the velocity-set tables and the kernel sources.
func (lbm *LBM) programSource() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#define NX %d\n", lbm.Nx)
	fmt.Fprintf(&b, "#define NY %d\n", lbm.Ny)
	fmt.Fprintf(&b, "#define NZ %d\n", lbm.Nz)
	fmt.Fprintf(&b, "#define N %d\n", lbm.N)
	fmt.Fprintf(&b, "#define Q %d\n", lbm.Q)
	fmt.Fprintf(&b, "#define D %d\n", lbm.D)
	fmt.Fprintf(&b, "#define %s\n", lbm.Model)
	fmt.Fprintf(&b, "#define %s\n", lbm.Precision)
	fmt.Fprintf(&b, "#define FLAG_FLUID %d\n", FlagFluid)
	fmt.Fprintf(&b, "#define FLAG_SOLID %d\n", FlagSolid)
	fmt.Fprintf(&b, "#define FLAG_EQ %d\n", FlagEq)
	b.WriteString(kernelPreludeSrc)
	b.WriteString(velocitySetSource(lbm.lat))
	b.WriteString(kernelCommonSrc)
	b.WriteString(kernelEquilibriumSrc)
	b.WriteString(kernelStreamCollideSrc)
	return b.String()
}

// velocitySetSource emits the c, w and opposite tables of the selected
// lattice as OpenCL constant arrays. Generating them from the host tables
// keeps both sides in exact agreement.
func velocitySetSource(lat *lattice) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nconstant int c[%d][3] = {\n", lat.q)
	for q, cq := range lat.c {
		sep := ","
		if q == lat.q-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    {%d, %d, %d}%s\n", cq[0], cq[1], cq[2], sep)
	}
	b.WriteString("};\n")

	fmt.Fprintf(&b, "\nconstant float w[%d] = {\n", lat.q)
	for q, wq := range lat.w {
		sep := ","
		if q == lat.q-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %sf%s\n", strconv.FormatFloat(float64(wq), 'e', 9, 32), sep)
	}
	b.WriteString("};\n")

	fmt.Fprintf(&b, "\nconstant int opposite[%d] = {", lat.q)
	for q, o := range lat.opposite {
		if q > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", o)
	}
	b.WriteString("};\n")

	return b.String()
}

// buildOptions returns the compiler options for the device program.
func (lbm *LBM) buildOptions() string {
	return "-cl-fast-relaxed-math"
}
