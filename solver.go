package lattelab

import (
	"fmt"
	"sync/atomic"
)

// Node flags. The same values are injected into the device program so host
// and device always agree.
const (
	FlagFluid uint8 = 0
	FlagSolid uint8 = 1
	FlagEq    uint8 = 2
)

// Backend selects where the time-stepping loop executes.
type Backend int

const (
	// BackendOpenCL runs the kernels on the first suitable OpenCL device.
	BackendOpenCL Backend = iota
	// BackendHost runs the reference stepper on the CPU worker pool.
	BackendHost
)

// State tracks the solver lifecycle.
type State int

const (
	StateBuilt State = iota
	StateInitialized
	StateRunning
	StateStopped
	StateFaulted
)

// Painter populates the initial flags, density and velocity of one node. The
// solver invokes it exactly once per node before the device upload.
type Painter func(lbm *LBM, x, y, z, n int)

// stepper is the per-backend execution engine behind the time-step driver.
type stepper interface {
	initEquilibrium() error
	step(t int) error
	readMacroscopic(rho, u []float32) error
	release()
	describe() string
}

// LBM is a lattice Boltzmann solver on a uniform periodic grid. Construct it
// with New, paint the geometry with SetConditions, then call Run.
type LBM struct {
	Nx, Ny, Nz int
	N          int
	Model      Model
	Q, D       int
	Viscosity  float32
	Omega      float32
	Precision  Precision

	// Host mirrors of the macroscopic fields. Painters write them; after
	// Run or Step they hold the most recently downloaded state.
	Rho   []float32
	U     []float32 // 3 components per node
	Flags []uint8

	lat     *lattice
	state   State
	backend Backend
	engine  stepper
	shadow  *hostStepper // lockstep CPU mirror when verify is enabled
	verify  bool

	outputCSV      bool
	outputVTK      bool
	outputInterval int
	outputDir      string
	strictOutput   bool

	timeSteps int // T of the current/most recent Run
	step      int // next step index
	painted   bool
	cancelled atomic.Bool
}

// New builds a solver for an (nx, ny, nz) grid. The relaxation parameter is
// derived from the kinematic viscosity as omega = 1/(3*nu + 0.5).
func New(nx, ny, nz int, model Model, viscosity float32, precision Precision) (*LBM, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	if viscosity <= 0 {
		return nil, fmt.Errorf("viscosity must be positive, got %v", viscosity)
	}
	lat, err := latticeFor(model)
	if err != nil {
		return nil, err
	}
	if lat.d == 2 && nz != 1 {
		return nil, fmt.Errorf("%v requires Nz=1, got %d", model, nz)
	}
	switch precision {
	case FP32, FP16S, FP16C:
	default:
		return nil, fmt.Errorf("invalid precision mode %d", int(precision))
	}

	n := nx * ny * nz
	lbm := &LBM{
		Nx: nx, Ny: ny, Nz: nz, N: n,
		Model:     model,
		Q:         lat.q,
		D:         lat.d,
		Viscosity: viscosity,
		Omega:     1.0 / (3.0*viscosity + 0.5),
		Precision: precision,
		Rho:       make([]float32, n),
		U:         make([]float32, 3*n),
		Flags:     make([]uint8, n),
		lat:       lat,
		outputDir: "output",
	}
	for i := range lbm.Rho {
		lbm.Rho[i] = 1.0
	}
	return lbm, nil
}

// SetConditions invokes paint once per node to populate flags, density and
// velocity, then validates the painted state.
func (lbm *LBM) SetConditions(paint Painter) error {
	if lbm.state != StateBuilt {
		return fmt.Errorf("conditions must be set before initialization")
	}
	for n := 0; n < lbm.N; n++ {
		x, y, z := xyzFromN(n, lbm.Nx, lbm.Ny)
		paint(lbm, x, y, z, n)
	}
	if err := lbm.checkPainted(); err != nil {
		return err
	}
	lbm.painted = true
	return nil
}

// SetOutputCSV toggles per-frame CSV export.
func (lbm *LBM) SetOutputCSV(state bool) { lbm.outputCSV = state }

// SetOutputVTK toggles per-frame legacy-VTK export.
func (lbm *LBM) SetOutputVTK(state bool) { lbm.outputVTK = state }

// SetOutputInterval sets the step interval between exported frames. Zero
// disables scheduled output.
func (lbm *LBM) SetOutputInterval(steps int) { lbm.outputInterval = steps }

// SetOutputDir overrides the default "output" directory.
func (lbm *LBM) SetOutputDir(dir string) { lbm.outputDir = dir }

// SetStrictOutput makes per-frame write failures abort the run instead of
// being logged and skipped.
func (lbm *LBM) SetStrictOutput(state bool) { lbm.strictOutput = state }

// SetBackend selects the execution backend. Must be called before Run or
// Initialize.
func (lbm *LBM) SetBackend(b Backend) { lbm.backend = b }

// SetVerify steps a CPU mirror in lockstep with the device and compares the
// macroscopic fields on every scheduled download.
func (lbm *LBM) SetVerify(state bool) { lbm.verify = state }

// Cancel requests a cooperative stop. The driver checks it between kernel
// launches and tears down cleanly.
func (lbm *LBM) Cancel() { lbm.cancelled.Store(true) }

// StateOf returns the current lifecycle state.
func (lbm *LBM) StateOf() State { return lbm.state }

// MemoryBytes returns the device memory footprint of the allocated buffers:
// two Q*N population buffers in the storage precision, plus density,
// velocity and flags.
func (lbm *LBM) MemoryBytes() int64 {
	n := int64(lbm.N)
	f := 2 * n * int64(lbm.Q) * int64(lbm.Precision.storageBytes())
	return f + n*4 + n*3*4 + n
}

// Close releases the backend resources. Safe to call more than once.
func (lbm *LBM) Close() {
	if lbm.engine != nil {
		lbm.engine.release()
		lbm.engine = nil
	}
	if lbm.shadow != nil {
		lbm.shadow.release()
		lbm.shadow = nil
	}
	if lbm.state != StateFaulted {
		lbm.state = StateStopped
	}
}

// fault records a fatal device error and halts the loop.
func (lbm *LBM) fault(err error) error {
	lbm.state = StateFaulted
	return err
}
