//go:build !nocl

package lattelab

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// deviceStepper executes the kernels on an OpenCL device. One work-item per
// lattice node, a single in-order queue, ping-pong roles selected by the
// step index passed as a kernel argument.
type deviceStepper struct {
	lbm *LBM

	context  *cl.Context
	queue    *cl.CommandQueue
	program  *cl.Program
	eqKernel *cl.Kernel
	scKernel *cl.Kernel

	fA      *cl.MemObject
	fB      *cl.MemObject
	rhoBuf  *cl.MemObject
	uBuf    *cl.MemObject
	flagBuf *cl.MemObject

	deviceName string
}

// selectDevice probes the OpenCL runtime and returns the first device that
// supports the required precision, preferring GPUs over CPUs.
func selectDevice(precision Precision) (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed")
	}

	supported := func(d *cl.Device) bool {
		if !precision.halfStorage() {
			return true
		}
		return strings.Contains(d.Extensions(), "cl_khr_fp16")
	}
	for _, devType := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(devType)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			for _, d := range devices {
				if supported(d) {
					return d, nil
				}
			}
		}
	}
	if precision.halfStorage() {
		return nil, fmt.Errorf("no OpenCL device with cl_khr_fp16 found (required by %v)", precision)
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func newDeviceStepper(lbm *LBM) (*deviceStepper, error) {
	device, err := selectDevice(lbm.Precision)
	if err != nil {
		return nil, err
	}
	ds := &deviceStepper{
		lbm:        lbm,
		deviceName: fmt.Sprintf("%s (%s)", device.Name(), device.Vendor()),
	}
	log.Printf("OpenCL device: %s", ds.deviceName)

	ds.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	ds.queue, err = ds.context.CreateCommandQueue(device, 0)
	if err != nil {
		ds.release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	ds.program, err = ds.context.CreateProgramWithSource([]string{lbm.programSource()})
	if err != nil {
		ds.release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := ds.program.BuildProgram([]*cl.Device{device}, lbm.buildOptions()); err != nil {
		ds.release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	ds.eqKernel, err = ds.program.CreateKernel("equilibrium")
	if err != nil {
		ds.release()
		return nil, fmt.Errorf("creating equilibrium kernel: %w", err)
	}
	ds.scKernel, err = ds.program.CreateKernel("stream_collide")
	if err != nil {
		ds.release()
		return nil, fmt.Errorf("creating stream_collide kernel: %w", err)
	}

	if err := ds.allocate(); err != nil {
		ds.release()
		return nil, err
	}
	if err := ds.upload(); err != nil {
		ds.release()
		return nil, err
	}

	if err := ds.eqKernel.SetArgs(ds.fA, ds.rhoBuf, ds.uBuf); err != nil {
		ds.release()
		return nil, fmt.Errorf("setting equilibrium kernel arguments: %w", err)
	}
	if err := ds.scKernel.SetArgs(
		ds.fA, ds.fB, ds.rhoBuf, ds.uBuf, ds.flagBuf, lbm.Omega, int32(0),
	); err != nil {
		ds.release()
		return nil, fmt.Errorf("setting stream_collide kernel arguments: %w", err)
	}
	return ds, nil
}

// allocate reserves the device buffers: the ping-pong population pair in the
// storage precision, plus density, velocity and flags.
func (ds *deviceStepper) allocate() error {
	lbm := ds.lbm
	popBytes := lbm.Q * lbm.N * lbm.Precision.storageBytes()
	var err error
	if ds.fA, err = ds.context.CreateEmptyBuffer(cl.MemReadWrite, popBytes); err != nil {
		return fmt.Errorf("allocating f_A buffer: %w", err)
	}
	if ds.fB, err = ds.context.CreateEmptyBuffer(cl.MemReadWrite, popBytes); err != nil {
		return fmt.Errorf("allocating f_B buffer: %w", err)
	}
	if ds.rhoBuf, err = ds.context.CreateEmptyBuffer(cl.MemReadWrite, lbm.N*4); err != nil {
		return fmt.Errorf("allocating density buffer: %w", err)
	}
	if ds.uBuf, err = ds.context.CreateEmptyBuffer(cl.MemReadWrite, 3*lbm.N*4); err != nil {
		return fmt.Errorf("allocating velocity buffer: %w", err)
	}
	if ds.flagBuf, err = ds.context.CreateEmptyBuffer(cl.MemReadOnly, lbm.N); err != nil {
		return fmt.Errorf("allocating flags buffer: %w", err)
	}
	return nil
}

// upload pushes the painted host state to the device. The population buffers
// are filled on the device by the equilibrium kernel.
func (ds *deviceStepper) upload() error {
	lbm := ds.lbm
	if _, err := ds.queue.EnqueueWriteBufferFloat32(ds.rhoBuf, false, 0, lbm.Rho, nil); err != nil {
		return fmt.Errorf("writing density buffer: %w", err)
	}
	if _, err := ds.queue.EnqueueWriteBufferFloat32(ds.uBuf, false, 0, lbm.U, nil); err != nil {
		return fmt.Errorf("writing velocity buffer: %w", err)
	}
	ptr := unsafe.Pointer(&lbm.Flags[0])
	if _, err := ds.queue.EnqueueWriteBuffer(ds.flagBuf, true, 0, len(lbm.Flags), ptr, nil); err != nil {
		return fmt.Errorf("writing flags buffer: %w", err)
	}
	return nil
}

func (ds *deviceStepper) initEquilibrium() error {
	// The in-order queue sequences the fill before the first stream_collide
	// launch; no host-side blocking is needed here.
	if _, err := ds.queue.EnqueueNDRangeKernel(ds.eqKernel, nil, []int{ds.lbm.N}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing equilibrium kernel: %w", err)
	}
	return nil
}

// step enqueues one fused stream-and-collide launch. The in-order queue
// guarantees launch t+1 observes all writes of launch t; no host blocking
// happens here.
func (ds *deviceStepper) step(t int) error {
	if err := ds.scKernel.SetArgInt32(6, int32(t)); err != nil {
		return fmt.Errorf("setting step index: %w", err)
	}
	if _, err := ds.queue.EnqueueNDRangeKernel(ds.scKernel, nil, []int{ds.lbm.N}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing stream_collide kernel: %w", err)
	}
	return nil
}

// readMacroscopic blocks until all enqueued launches have finished, then
// downloads density and velocity.
func (ds *deviceStepper) readMacroscopic(rho, u []float32) error {
	if _, err := ds.queue.EnqueueReadBufferFloat32(ds.rhoBuf, true, 0, rho, nil); err != nil {
		return fmt.Errorf("reading density buffer: %w", err)
	}
	if _, err := ds.queue.EnqueueReadBufferFloat32(ds.uBuf, true, 0, u, nil); err != nil {
		return fmt.Errorf("reading velocity buffer: %w", err)
	}
	return nil
}

func (ds *deviceStepper) release() {
	for _, buf := range []**cl.MemObject{&ds.flagBuf, &ds.uBuf, &ds.rhoBuf, &ds.fB, &ds.fA} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if ds.scKernel != nil {
		ds.scKernel.Release()
		ds.scKernel = nil
	}
	if ds.eqKernel != nil {
		ds.eqKernel.Release()
		ds.eqKernel = nil
	}
	if ds.program != nil {
		ds.program.Release()
		ds.program = nil
	}
	if ds.queue != nil {
		ds.queue.Release()
		ds.queue = nil
	}
	if ds.context != nil {
		ds.context.Release()
		ds.context = nil
	}
}

func (ds *deviceStepper) describe() string { return ds.deviceName }
