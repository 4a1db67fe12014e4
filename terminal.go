package lattelab

import (
	"fmt"

	"github.com/fatih/color"
)

// Styled terminal output for the driver, matching the original LatteLab
// status-line conventions.

var (
	labelSuccess = color.New(color.FgGreen, color.Bold)
	labelError   = color.New(color.FgRed, color.Bold)
	labelWarning = color.New(color.FgYellow, color.Bold)
	styleTitle   = color.New(color.FgBlue, color.Bold)
	styleEm      = color.New(color.FgWhite, color.Bold)
)

func printSuccess(msg string) {
	fmt.Printf("%s: %s\n", labelSuccess.Sprint("[SUCCESS]"), msg)
}

func printError(msg string) {
	fmt.Printf("%s: %s\n", labelError.Sprint("[ERROR]"), msg)
}

func printWarning(msg string) {
	fmt.Printf("%s: %s\n", labelWarning.Sprint("[WARNING]"), msg)
}

const banner = `
  _           _   _       _           _
 | |         | | | |     | |         | |
 | |     __ _| |_| |_ ___| |     __ _| |__
 | |    / _` + "`" + ` | __| __/ _ \ |    / _` + "`" + ` | '_ \
 | |___| (_| | |_| ||  __/ |___| (_| | |_) |
 |______\__,_|\__|\__\___|______\__,_|_.__/
`

func printBanner() {
	fmt.Println(ruler(72))
	styleTitle.Print(banner)
}

func ruler(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = '-'
	}
	return string(s)
}

// printMetrics reports the end-of-run wall time and throughput in millions
// of lattice updates per second.
func printMetrics(steps int, elapsed float64, mlups float64) {
	fmt.Println()
	fmt.Println(ruler(72))
	printSuccess("Simulation finished successfully!")
	secs := int64(elapsed)
	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	seconds := elapsed - float64(secs-secs%60)
	fmt.Printf("Elapsed time: %dd %dh %dm %.3fs\n", days, hours, minutes, seconds)
	fmt.Printf("%d time steps\n", steps)
	fmt.Printf("%s: %.2f MLUps\n\n", styleEm.Sprint("Performance"), mlups)
}
