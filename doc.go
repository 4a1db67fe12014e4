// Package lattelab implements a lattice Boltzmann fluid solver whose
// time-stepping loop runs on an OpenCL device.
//
// A solver is built for one grid, velocity set and precision mode. Geometry
// and initial conditions are painted per node through SetConditions, the
// populations are initialized to equilibrium on the device, and Run drives
// the fused stream-and-collide kernel with ping-pong population buffers,
// downloading density and velocity at the configured output interval.
//
//	lbm, err := lattelab.New(128, 128, 1, lattelab.D2Q9, 0.1, lattelab.FP32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = lbm.SetConditions(func(lbm *lattelab.LBM, x, y, z, n int) {
//	    lbm.Rho[n] = 1.0
//	    if y == lbm.Ny-1 {
//	        lbm.Flags[n] = lattelab.FlagEq
//	        lbm.U[3*n] = 0.1
//	    }
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lbm.SetOutputVTK(true)
//	lbm.SetOutputInterval(100)
//	err = lbm.Run(20000)
//
// The host reference stepper (BackendHost) mirrors the device kernels on a
// CPU worker pool; it serves as a fallback backend, powers the lockstep
// verify mode, and is what the tests exercise.
package lattelab
