package lattelab

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BenchmarkResult captures one benchmark configuration and its measured
// throughput.
type BenchmarkResult struct {
	Model     Model
	Precision Precision
	Nx, Ny, Nz int
	GridSize   int
	Steps      int
	Elapsed    float64
	MLUps      float64
	MemoryMB   float64
	Backend    string
}

type benchmarkConfig struct {
	model      Model
	nx, ny, nz int
}

func benchmarkConfigs() []benchmarkConfig {
	var configs []benchmarkConfig
	for _, s := range []int{64, 128, 256, 512} {
		configs = append(configs, benchmarkConfig{D2Q9, s, s, 1})
	}
	for _, model := range []Model{D3Q7, D3Q15, D3Q19, D3Q27} {
		for _, s := range []int{16, 32, 64} {
			configs = append(configs, benchmarkConfig{model, s, s, s})
		}
	}
	return configs
}

// RunBenchmarks sweeps the standard grid configurations with the given
// precision and backend, prints per-configuration results and a summary, and
// saves a CSV under benchmarks/.
func RunBenchmarks(backend Backend, precision Precision, steps int) ([]BenchmarkResult, error) {
	fmt.Println(ruler(72))
	printSuccess("Starting LatteLab benchmark suite")
	fmt.Println(ruler(72))

	configs := benchmarkConfigs()
	results := make([]BenchmarkResult, 0, len(configs))
	for i, cfg := range configs {
		fmt.Printf("[%d/%d] %v %dx%dx%d %v\n",
			i+1, len(configs), cfg.model, cfg.nx, cfg.ny, cfg.nz, precision)
		res, err := runSingleBenchmark(cfg, backend, precision, steps)
		if err != nil {
			printError(fmt.Sprintf("%v %dx%dx%d: %v", cfg.model, cfg.nx, cfg.ny, cfg.nz, err))
			continue
		}
		fmt.Printf("  %.2f MLUps, %.3fs, %.2f MB\n", res.MLUps, res.Elapsed, res.MemoryMB)
		results = append(results, res)
	}

	if err := saveBenchmarkCSV(results); err != nil {
		printError(fmt.Sprintf("saving benchmark CSV: %v", err))
	} else {
		printSuccess("Benchmark results saved to benchmarks/benchmark_results.csv")
	}
	printBenchmarkSummary(results)
	return results, nil
}

func runSingleBenchmark(cfg benchmarkConfig, backend Backend, precision Precision, steps int) (BenchmarkResult, error) {
	lbm, err := New(cfg.nx, cfg.ny, cfg.nz, cfg.model, 0.1, precision)
	if err != nil {
		return BenchmarkResult{}, err
	}
	lbm.SetBackend(backend)
	defer lbm.Close()
	if err := lbm.Initialize(); err != nil {
		return BenchmarkResult{}, err
	}

	start := time.Now()
	if err := lbm.Step(steps); err != nil {
		return BenchmarkResult{}, err
	}
	if err := lbm.Sync(); err != nil {
		return BenchmarkResult{}, err
	}
	elapsed := time.Since(start).Seconds()

	return BenchmarkResult{
		Model:     cfg.model,
		Precision: precision,
		Nx:        cfg.nx, Ny: cfg.ny, Nz: cfg.nz,
		GridSize: lbm.N,
		Steps:    steps,
		Elapsed:  elapsed,
		MLUps:    float64(lbm.N) * float64(steps) / elapsed / 1e6,
		MemoryMB: float64(lbm.MemoryBytes()) / (1024 * 1024),
		Backend:  lbm.engine.describe(),
	}, nil
}

func saveBenchmarkCSV(results []BenchmarkResult) error {
	if err := os.MkdirAll("benchmarks", 0o755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join("benchmarks", "benchmark_results.csv"))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "Model,Precision,Nx,Ny,Nz,GridSize,TimeSteps,ElapsedTime,MLUps,MemoryUsageMB,Backend")
	for _, r := range results {
		fmt.Fprintf(w, "%v,%v,%d,%d,%d,%d,%d,%.6f,%.2f,%.2f,%s\n",
			r.Model, r.Precision, r.Nx, r.Ny, r.Nz, r.GridSize, r.Steps,
			r.Elapsed, r.MLUps, r.MemoryMB, r.Backend)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func printBenchmarkSummary(results []BenchmarkResult) {
	if len(results) == 0 {
		printWarning("no benchmark results")
		return
	}
	fmt.Println(ruler(72))
	best := results[0]
	var sum float64
	for _, r := range results {
		if r.MLUps > best.MLUps {
			best = r
		}
		sum += r.MLUps
	}
	fmt.Printf("Best: %v %dx%dx%d at %.2f MLUps\n", best.Model, best.Nx, best.Ny, best.Nz, best.MLUps)
	fmt.Printf("Mean: %.2f MLUps over %d configurations\n", sum/float64(len(results)), len(results))
	fmt.Println(ruler(72))
}
