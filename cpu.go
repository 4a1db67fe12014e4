package lattelab

import (
	"fmt"
	"runtime"
	"sync"
)

// hostStepper mirrors the device kernels on the CPU: identical pull
// streaming, bounce-back, moment accumulation and BGK collision, with the
// population buffers stored in the same precision as the device would use.
// It backs BackendHost, the verify mode and the test suite.
//
// The grid rows (fixed y,z) are split into spans of non-solid nodes once at
// construction and distributed round robin over a persistent pool of worker
// goroutines.
type hostStepper struct {
	lbm *LBM
	lat *lattice

	rho   []float32
	u     []float32
	flags []uint8

	fA popBuffer
	fB popBuffer

	// halfCompute additionally rounds the equilibrium through binary16,
	// approximating FP16C device arithmetic; moments stay float32 either
	// way.
	halfCompute bool

	masks       [][]rowSpans
	workerCount int

	mu      sync.Mutex
	cond    *sync.Cond
	pending int
	stepSeq int
	curStep int
	started bool
	quit    bool
}

// popBuffer is one distribution buffer in the configured storage precision.
type popBuffer struct {
	f32 []float32
	f16 []uint16
}

func newPopBuffer(size int, half bool) popBuffer {
	if half {
		return popBuffer{f16: make([]uint16, size)}
	}
	return popBuffer{f32: make([]float32, size)}
}

func (b popBuffer) load(i int) float32 {
	if b.f16 != nil {
		return halfToFloat32(b.f16[i])
	}
	return b.f32[i]
}

func (b popBuffer) store(i int, v float32) {
	if b.f16 != nil {
		b.f16[i] = halfFromFloat32(v)
		return
	}
	b.f32[i] = v
}

// span is an inclusive x range of non-solid nodes inside a row.
type span struct{ start, end int }

// rowSpans groups the spans of one (y, z) row.
type rowSpans struct {
	y, z  int
	spans []span
}

func newHostStepper(lbm *LBM) *hostStepper {
	size := lbm.Q * lbm.N
	hs := &hostStepper{
		lbm:         lbm,
		lat:         lbm.lat,
		rho:         make([]float32, lbm.N),
		u:           make([]float32, 3*lbm.N),
		flags:       make([]uint8, lbm.N),
		fA:          newPopBuffer(size, lbm.Precision.halfStorage()),
		fB:          newPopBuffer(size, lbm.Precision.halfStorage()),
		halfCompute: lbm.Precision == FP16C,
	}
	copy(hs.rho, lbm.Rho)
	copy(hs.u, lbm.U)
	copy(hs.flags, lbm.Flags)
	hs.cond = sync.NewCond(&hs.mu)

	rows := hs.buildRowSpans()
	hs.workerCount = runtime.NumCPU()
	if hs.workerCount > len(rows) {
		hs.workerCount = len(rows)
	}
	if hs.workerCount < 1 {
		hs.workerCount = 1
	}
	hs.masks = assignRows(hs.workerCount, rows)
	return hs
}

// buildRowSpans scans every row for runs of non-solid nodes. Flags are
// read-only after initialization, so the spans are computed once.
func (hs *hostStepper) buildRowSpans() []rowSpans {
	lbm := hs.lbm
	rows := make([]rowSpans, 0, lbm.Ny*lbm.Nz)
	for z := 0; z < lbm.Nz; z++ {
		for y := 0; y < lbm.Ny; y++ {
			base := nFromXYZ(0, y, z, lbm.Nx, lbm.Ny)
			var spans []span
			in := false
			start := 0
			for x := 0; x < lbm.Nx; x++ {
				solid := hs.flags[base+x] == FlagSolid
				if !solid && !in {
					in = true
					start = x
				}
				if (solid || x == lbm.Nx-1) && in {
					end := x - 1
					if !solid {
						end = x
					}
					spans = append(spans, span{start: start, end: end})
					in = false
				}
			}
			if len(spans) > 0 {
				rows = append(rows, rowSpans{y: y, z: z, spans: spans})
			}
		}
	}
	return rows
}

// assignRows distributes rows across workers round robin.
func assignRows(workerCount int, rows []rowSpans) [][]rowSpans {
	masks := make([][]rowSpans, workerCount)
	for i, row := range rows {
		idx := i % workerCount
		masks[idx] = append(masks[idx], row)
	}
	return masks
}

func (hs *hostStepper) startWorkers() {
	if hs.started {
		return
	}
	hs.started = true
	for i := 0; i < hs.workerCount; i++ {
		go hs.workerLoop(i)
	}
}

func (hs *hostStepper) workerLoop(index int) {
	last := 0
	hs.mu.Lock()
	for {
		for hs.stepSeq == last && !hs.quit {
			hs.cond.Wait()
		}
		if hs.quit {
			hs.mu.Unlock()
			return
		}
		last = hs.stepSeq
		rows := hs.masks[index]
		t := hs.curStep
		hs.mu.Unlock()

		read, write := hs.roles(t)
		for _, row := range rows {
			hs.stepRow(read, write, row)
		}

		hs.mu.Lock()
		hs.pending--
		if hs.pending == 0 {
			hs.cond.Broadcast()
		}
	}
}

// roles returns the (read, write) pair for step t: even steps read fA.
func (hs *hostStepper) roles(t int) (popBuffer, popBuffer) {
	if t%2 == 0 {
		return hs.fA, hs.fB
	}
	return hs.fB, hs.fA
}

// feq is the discrete equilibrium truncated to second order in u.
func feq(c [3]int32, w, rho, ux, uy, uz float32) float32 {
	cu := float32(c[0])*ux + float32(c[1])*uy + float32(c[2])*uz
	uu := ux*ux + uy*uy + uz*uz
	return rho * w * (1 + 3*cu + 4.5*cu*cu - 1.5*uu)
}

func (hs *hostStepper) equilibriumAt(q int, rho, ux, uy, uz float32) float32 {
	v := feq(hs.lat.c[q], hs.lat.w[q], rho, ux, uy, uz)
	if hs.halfCompute {
		v = halfRound(v)
	}
	return v
}

// stepRow runs the fused stream-and-collide update over one row's spans.
func (hs *hostStepper) stepRow(read, write popBuffer, row rowSpans) {
	lbm := hs.lbm
	lat := hs.lat
	nTotal := lbm.N
	omega := lbm.Omega
	pop := make([]float32, lat.q)

	for _, sp := range row.spans {
		for x := sp.start; x <= sp.end; x++ {
			n := nFromXYZ(x, row.y, row.z, lbm.Nx, lbm.Ny)
			flag := hs.flags[n]

			// Pull streaming with periodic wrap and bounce-back from
			// solid upwind neighbors.
			for q := 0; q < lat.q; q++ {
				cq := lat.c[q]
				xp := wrap(x-int(cq[0]), lbm.Nx)
				yp := wrap(row.y-int(cq[1]), lbm.Ny)
				zp := wrap(row.z-int(cq[2]), lbm.Nz)
				np := nFromXYZ(xp, yp, zp, lbm.Nx, lbm.Ny)
				if hs.flags[np] == FlagSolid {
					pop[q] = read.load(int(lat.opposite[q])*nTotal + n)
				} else {
					pop[q] = read.load(q*nTotal + np)
				}
			}

			// Moments in float32 regardless of precision mode.
			var rhoN, ux, uy, uz float32
			for q := 0; q < lat.q; q++ {
				cq := lat.c[q]
				fq := pop[q]
				rhoN += fq
				ux += float32(cq[0]) * fq
				uy += float32(cq[1]) * fq
				uz += float32(cq[2]) * fq
			}
			if rhoN > 1e-10 {
				ux /= rhoN
				uy /= rhoN
				uz /= rhoN
			} else {
				ux, uy, uz = 0, 0, 0
			}

			if flag == FlagEq {
				// Prescribed rho/u stay untouched.
				r := hs.rho[n]
				vx, vy, vz := hs.u[3*n], hs.u[3*n+1], hs.u[3*n+2]
				for q := 0; q < lat.q; q++ {
					write.store(q*nTotal+n, hs.equilibriumAt(q, r, vx, vy, vz))
				}
				continue
			}

			hs.rho[n] = rhoN
			hs.u[3*n] = ux
			hs.u[3*n+1] = uy
			hs.u[3*n+2] = uz
			for q := 0; q < lat.q; q++ {
				fq := pop[q]
				write.store(q*nTotal+n, fq-omega*(fq-hs.equilibriumAt(q, rhoN, ux, uy, uz)))
			}
		}
	}
}

// initEquilibrium fills the step-0 read buffer from the painted rho/u.
func (hs *hostStepper) initEquilibrium() error {
	lbm := hs.lbm
	for n := 0; n < lbm.N; n++ {
		r := hs.rho[n]
		vx, vy, vz := hs.u[3*n], hs.u[3*n+1], hs.u[3*n+2]
		for q := 0; q < hs.lat.q; q++ {
			hs.fA.store(q*lbm.N+n, hs.equilibriumAt(q, r, vx, vy, vz))
		}
	}
	return nil
}

func (hs *hostStepper) step(t int) error {
	hs.startWorkers()
	hs.mu.Lock()
	hs.curStep = t
	hs.pending = hs.workerCount
	hs.stepSeq++
	hs.cond.Broadcast()
	for hs.pending > 0 {
		hs.cond.Wait()
	}
	hs.mu.Unlock()
	return nil
}

func (hs *hostStepper) readMacroscopic(rho, u []float32) error {
	copy(rho, hs.rho)
	copy(u, hs.u)
	return nil
}

func (hs *hostStepper) release() {
	hs.mu.Lock()
	hs.quit = true
	hs.cond.Broadcast()
	hs.mu.Unlock()
}

func (hs *hostStepper) describe() string {
	return fmt.Sprintf("host reference stepper (%d workers)", hs.workerCount)
}
