package main

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/fractal"
)

var (
	benchTicks int
	benchDT    float32
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Tick the tree headless and report timings",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVarP(&benchTicks, "ticks", "n", 600, "Number of ticks")
	benchCmd.Flags().Float32Var(&benchDT, "dt", 1.0/60, "Seconds per tick")
}

// benchResult summarizes a headless run.
type benchResult struct {
	Ticks int
	Parts int
	Total time.Duration
	Mean  time.Duration
	Max   time.Duration
}

// PartsPerSecond is the update throughput over the whole run.
func (r benchResult) PartsPerSecond() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Parts) * float64(r.Ticks) / r.Total.Seconds()
}

func (r benchResult) String() string {
	return fmt.Sprintf("%d ticks of %d parts: mean %v, max %v, %.0f parts/s",
		r.Ticks, r.Parts, r.Mean, r.Max, r.PartsPerSecond())
}

// benchmark ticks f n times with a slowly turning root.
func benchmark(f *fractal.Fractal, n int, dt float32) benchResult {
	res := benchResult{Ticks: n, Parts: f.Tree().PartCount()}
	root := fractal.IdentityRoot()
	for i := 0; i < n; i++ {
		root.Rotation = mgl32.QuatRotate(float32(i)*dt*0.1, mgl32.Vec3{0, 1, 0})
		start := time.Now()
		f.Tick(dt, root)
		d := time.Since(start)
		res.Total += d
		res.Max = max(res.Max, d)
	}
	if n > 0 {
		res.Mean = res.Total / time.Duration(n)
	}
	return res
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchTicks <= 0 {
		return fmt.Errorf("--ticks must be positive, got %d", benchTicks)
	}
	f, err := newFractal(cmd)
	if err != nil {
		return err
	}
	defer f.Disable()

	res := benchmark(f, benchTicks, benchDT)
	logger.Info("benchmark finished",
		zap.Int("depth", f.Config().Depth),
		zap.Int("ticks", res.Ticks),
		zap.Int("parts", res.Parts),
		zap.Duration("mean", res.Mean),
		zap.Duration("max", res.Max),
		zap.Float64("parts_per_second", res.PartsPerSecond()),
	)
	fmt.Fprintln(cmd.OutOrStdout(), res)
	return nil
}
