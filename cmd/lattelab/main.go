// Command lattelab runs the stock LatteLab scenarios on an OpenCL device or
// on the host reference stepper.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	lattelab "github.com/gustavoverneck/lattelab"
	"github.com/gustavoverneck/lattelab/scenarios"
)

var (
	// scenarioFlag selects the geometry painter and run defaults.
	scenarioFlag = flag.String("scenario", "cavity",
		"scenario: quiescent, cavity, poiseuille, couette, taylor-green, von-karman or benchmark")

	// modelFlag selects the velocity set of the quiescent scenario, the only
	// one that accepts 3D models; the other scenarios are D2Q9 and the
	// benchmark sweeps every model regardless of this flag.
	modelFlag = flag.String("model", "D2Q9", "lattice model (D2Q9, D3Q7, D3Q15, D3Q19, D3Q27)")

	nxFlag = flag.Int("nx", 0, "grid size in x (0 = scenario default)")
	nyFlag = flag.Int("ny", 0, "grid size in y (0 = scenario default)")
	nzFlag = flag.Int("nz", 0, "grid size in z (0 = scenario default)")

	nuFlag    = flag.Float64("nu", 0, "kinematic viscosity (0 = scenario default)")
	u0Flag    = flag.Float64("u0", 0, "characteristic velocity (0 = scenario default)")
	stepsFlag = flag.Int("steps", 0, "time steps to run (0 = scenario default)")

	precisionFlag = flag.String("precision", "FP32", "precision mode: FP32, FP16S or FP16C")

	intervalFlag = flag.Int("interval", 0, "steps between exported frames (0 = no scheduled output)")
	csvFlag      = flag.Bool("csv", false, "export CSV frames")
	vtkFlag      = flag.Bool("vtk", false, "export VTK frames")
	outdirFlag   = flag.String("outdir", "output", "output directory for exported frames")
	strictFlag   = flag.Bool("strict", false, "abort the run when a frame fails to write")

	// cpuFlag runs the host reference stepper instead of an OpenCL device.
	cpuFlag    = flag.Bool("cpu", false, "run on the host reference stepper")
	verifyFlag = flag.Bool("verify", false, "step a CPU mirror in lockstep and compare downloads")

	viewFlag      = flag.Bool("view", false, "open a live velocity-magnitude viewer (2D models only)")
	viewScaleFlag = flag.Int("view-scale", 2, "window scale factor for the live viewer")
)

func main() {
	flag.Parse()

	precision, err := lattelab.ParsePrecision(*precisionFlag)
	if err != nil {
		log.Fatal(err)
	}
	backend := lattelab.BackendOpenCL
	if *cpuFlag {
		backend = lattelab.BackendHost
	}

	if *scenarioFlag == "benchmark" {
		if _, err := lattelab.RunBenchmarks(backend, precision, benchSteps(*stepsFlag)); err != nil {
			log.Fatal(err)
		}
		return
	}

	p := scenarios.Params{
		Nx: *nxFlag, Ny: *nyFlag, Nz: *nzFlag,
		Viscosity: float32(*nuFlag),
		U0:        float32(*u0Flag),
		Steps:     *stepsFlag,
		Precision: precision,
	}
	lbm, steps, err := buildScenario(*scenarioFlag, p)
	if err != nil {
		log.Fatal(err)
	}

	lbm.SetBackend(backend)
	lbm.SetVerify(*verifyFlag)
	lbm.SetOutputCSV(*csvFlag)
	lbm.SetOutputVTK(*vtkFlag)
	lbm.SetOutputInterval(*intervalFlag)
	lbm.SetOutputDir(*outdirFlag)
	lbm.SetStrictOutput(*strictFlag)

	if *viewFlag {
		if lbm.D != 2 {
			log.Fatal("the live viewer supports 2D models only")
		}
		if err := runViewer(lbm, steps, *viewScaleFlag); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := lbm.Run(steps); err != nil {
		os.Exit(1)
	}
}

func buildScenario(name string, p scenarios.Params) (*lattelab.LBM, int, error) {
	switch name {
	case "quiescent":
		model, err := lattelab.ParseModel(*modelFlag)
		if err != nil {
			return nil, 0, err
		}
		return scenarios.Quiescent(model, p)
	case "cavity":
		return scenarios.LidDrivenCavity(p)
	case "poiseuille":
		return scenarios.Poiseuille(p)
	case "couette":
		return scenarios.Couette(p)
	case "taylor-green":
		return scenarios.TaylorGreen(p)
	case "von-karman":
		return scenarios.VonKarman(p)
	}
	return nil, 0, fmt.Errorf("unknown scenario %q", name)
}

func benchSteps(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return 50
}
