package main

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	lattelab "github.com/gustavoverneck/lattelab"
)

// stepsPerTick is how many solver steps run per displayed frame.
const stepsPerTick = 10

// viewer renders the velocity magnitude of a 2D run while stepping the
// solver in batches.
type viewer struct {
	lbm    *lattelab.LBM
	total  int
	done   int
	pixels []byte
	uRef   float32
	runErr error
}

func newViewer(lbm *lattelab.LBM, steps int) *viewer {
	return &viewer{
		lbm:    lbm,
		total:  steps,
		pixels: make([]byte, lbm.Nx*lbm.Ny*4),
		uRef:   0.1,
	}
}

func (v *viewer) Update() error {
	if v.runErr != nil || v.done >= v.total {
		return nil
	}
	batch := stepsPerTick
	if v.done+batch > v.total {
		batch = v.total - v.done
	}
	if err := v.lbm.Step(batch); err != nil {
		v.runErr = err
		return nil
	}
	if err := v.lbm.Sync(); err != nil {
		v.runErr = err
		return nil
	}
	v.done += batch
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	lbm := v.lbm
	// Track the running peak so the colormap adapts to the flow.
	peak := v.uRef
	for y := 0; y < lbm.Ny; y++ {
		for x := 0; x < lbm.Nx; x++ {
			n := y*lbm.Nx + x
			// Screen rows grow downward, lattice rows upward.
			base := ((lbm.Ny-1-y)*lbm.Nx + x) * 4
			if lbm.Flags[n] == lattelab.FlagSolid {
				v.pixels[base] = 30
				v.pixels[base+1] = 40
				v.pixels[base+2] = 80
				v.pixels[base+3] = 255
				continue
			}
			ux := lbm.U[3*n]
			uy := lbm.U[3*n+1]
			mag := float32(math.Sqrt(float64(ux*ux + uy*uy)))
			if mag > peak {
				peak = mag
			}
			t := mag / peak
			if t > 1 {
				t = 1
			}
			v.pixels[base] = uint8(255 * t)
			v.pixels[base+1] = uint8(64 + 128*t)
			v.pixels[base+2] = uint8(255 * (1 - t))
			v.pixels[base+3] = 255
		}
	}
	v.uRef = peak
	screen.WritePixels(v.pixels)

	status := fmt.Sprintf("step %d/%d", v.done, v.total)
	if v.runErr != nil {
		status = v.runErr.Error()
	}
	ebitenutil.DebugPrint(screen, status)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.lbm.Nx, v.lbm.Ny
}

// runViewer steps the solver inside an ebiten loop, rendering |u| live.
func runViewer(lbm *lattelab.LBM, steps, scale int) error {
	if scale < 1 {
		scale = 1
	}
	if err := lbm.Initialize(); err != nil {
		return err
	}
	defer lbm.Close()

	ebiten.SetWindowSize(lbm.Nx*scale, lbm.Ny*scale)
	ebiten.SetWindowTitle("LatteLab")
	if err := ebiten.RunGame(newViewer(lbm, steps)); err != nil {
		return err
	}
	if v := lbm.StateOf(); v == lattelab.StateFaulted {
		return fmt.Errorf("solver faulted during the viewer run")
	}
	return nil
}
