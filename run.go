package lattelab

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Initialize builds the execution backend, uploads the painted state and
// fills the step-0 read buffer with equilibrium distributions.
func (lbm *LBM) Initialize() error {
	switch lbm.state {
	case StateBuilt:
	case StateInitialized, StateRunning:
		return nil
	default:
		return fmt.Errorf("solver cannot be reinitialized after it stopped")
	}

	log.Printf("initializing %v solver (%d x %d x %d, omega=%.4f) with %v: %s",
		lbm.Model, lbm.Nx, lbm.Ny, lbm.Nz, lbm.Omega, lbm.Precision, lbm.Precision.Description())

	var err error
	switch lbm.backend {
	case BackendHost:
		lbm.engine = newHostStepper(lbm)
	default:
		var ds *deviceStepper
		if ds, err = newDeviceStepper(lbm); err != nil {
			return lbm.fault(fmt.Errorf("device initialization: %w", err))
		}
		lbm.engine = ds
		if lbm.verify {
			lbm.shadow = newHostStepper(lbm)
		}
	}
	log.Printf("backend: %s", lbm.engine.describe())
	log.Printf("buffer memory: %.2f MB", float64(lbm.MemoryBytes())/(1024*1024))

	if err := lbm.engine.initEquilibrium(); err != nil {
		return lbm.fault(fmt.Errorf("equilibrium initialization: %w", err))
	}
	if lbm.shadow != nil {
		if err := lbm.shadow.initEquilibrium(); err != nil {
			return lbm.fault(fmt.Errorf("shadow equilibrium initialization: %w", err))
		}
	}
	lbm.state = StateInitialized
	return nil
}

// Step advances the solver by n steps without any scheduled output. Used by
// callers that drive the loop themselves (live viewer, benchmarks).
func (lbm *LBM) Step(n int) error {
	if err := lbm.Initialize(); err != nil {
		return err
	}
	lbm.state = StateRunning
	for i := 0; i < n; i++ {
		if err := lbm.engine.step(lbm.step); err != nil {
			return lbm.fault(err)
		}
		if lbm.shadow != nil {
			lbm.shadow.step(lbm.step)
		}
		lbm.step++
	}
	return nil
}

// Sync blocks until all enqueued launches finished and downloads the
// macroscopic fields into Rho and U, scanning them for divergence.
func (lbm *LBM) Sync() error {
	if lbm.engine == nil {
		return fmt.Errorf("solver is not initialized")
	}
	if err := lbm.engine.readMacroscopic(lbm.Rho, lbm.U); err != nil {
		return lbm.fault(err)
	}
	if err := lbm.checkDivergence(lbm.step); err != nil {
		return err
	}
	if lbm.shadow != nil {
		tol := float32(1e-4)
		if lbm.Precision.halfStorage() {
			tol = 1e-2
		}
		if err := lbm.compareWithShadow(lbm.step, tol); err != nil {
			return err
		}
	}
	return nil
}

// Run advances the solver by steps time steps, exporting frames at positive
// multiples of the output interval, and releases all resources on return.
func (lbm *LBM) Run(steps int) error {
	printBanner()
	fmt.Println(ruler(72))
	lbm.timeSteps = steps

	if err := lbm.Initialize(); err != nil {
		printError(err.Error())
		return err
	}
	defer lbm.Close()
	lbm.state = StateRunning

	wantOutput := lbm.outputInterval > 0 && (lbm.outputCSV || lbm.outputVTK)
	if wantOutput {
		if err := lbm.ensureOutputDir(); err != nil {
			printError(err.Error())
			return err
		}
	}

	bar := progressbar.NewOptions(steps,
		progressbar.OptionSetDescription("stepping"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	start := time.Now()
	done := 0
	for t := 0; t < steps; t++ {
		if lbm.cancelled.Load() {
			printWarning(fmt.Sprintf("cancelled at step %d", t))
			break
		}
		if err := lbm.engine.step(t); err != nil {
			printError(err.Error())
			return lbm.fault(err)
		}
		if lbm.shadow != nil {
			lbm.shadow.step(t)
		}
		lbm.step = t + 1
		done = t + 1

		if lbm.outputInterval > 0 && t > 0 && t%lbm.outputInterval == 0 {
			if err := lbm.Sync(); err != nil {
				printError(err.Error())
				return err
			}
			if wantOutput {
				if err := lbm.exportFrame(t); err != nil {
					if lbm.strictOutput {
						printError(err.Error())
						return err
					}
					printWarning(fmt.Sprintf("frame at step %d lost: %v", t, err))
				}
			}
		}
		bar.Add(1)
	}

	if err := lbm.Sync(); err != nil {
		printError(err.Error())
		return err
	}
	elapsed := time.Since(start).Seconds()
	mlups := float64(lbm.N) * float64(done) / elapsed / 1e6
	printMetrics(done, elapsed, mlups)
	return nil
}

// exportFrame writes the enabled formats for the frame at step t, named by
// the zero-padded step index.
func (lbm *LBM) exportFrame(t int) error {
	width := len(strconv.Itoa(lbm.timeSteps))
	if lbm.outputCSV {
		name := fmt.Sprintf("data_%0*d.csv", width, t)
		if err := lbm.WriteCSV(filepath.Join(lbm.outputDir, name)); err != nil {
			return err
		}
	}
	if lbm.outputVTK {
		name := fmt.Sprintf("data_%0*d.vtk", width, t)
		if err := lbm.WriteVTK(filepath.Join(lbm.outputDir, name)); err != nil {
			return err
		}
	}
	return nil
}
