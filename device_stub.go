//go:build nocl

package lattelab

import "errors"

type deviceStepper struct{}

func newDeviceStepper(*LBM) (*deviceStepper, error) {
	return nil, errors.New("OpenCL support is not compiled in; rebuild without the nocl tag or use BackendHost")
}

func (ds *deviceStepper) initEquilibrium() error { return errors.New("OpenCL solver unavailable") }

func (ds *deviceStepper) step(int) error { return errors.New("OpenCL solver unavailable") }

func (ds *deviceStepper) readMacroscopic([]float32, []float32) error {
	return errors.New("OpenCL solver unavailable")
}

func (ds *deviceStepper) release() {}

func (ds *deviceStepper) describe() string { return "" }
