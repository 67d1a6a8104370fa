package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"debugkit/internal/debugging"
	"debugkit/internal/logging"
	"debugkit/internal/pipeline"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var detach bool

var sumCmd = &cobra.Command{
	Use:   "sum",
	Short: "Sum the sample numbers",
	Args:  cobra.NoArgs,
	RunE:  runSum,
}

var divideCmd = &cobra.Command{
	Use:   "divide",
	Short: "Divide the sample numerator by each sample divisor",
	Long: `Divides the numerator by every divisor in order. A zero divisor prints
an error line and the remaining divisions still run.`,
	Args: cobra.NoArgs,
	RunE: runDivide,
}

var validateEmailCmd = &cobra.Command{
	Use:   "validate-email",
	Short: "Validate the sample email address",
	Args:  cobra.NoArgs,
	RunE:  runValidateEmail,
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the data processing service",
	Long: `Runs the data processing service: processData on the main flow, then
calculateMetrics and validateInput as two concurrent units. Each failure is
printed with a diagnostic trace; the command still exits 0.

By default the command waits for both units. With --detach (or
pipeline.detach / DEBUGKIT_DETACH) it returns as soon as the units are
started, so their output may be lost when the process exits first.`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&detach, "detach", false, "Do not wait for the background units")
}

func runSum(cmd *cobra.Command, args []string) error {
	log := logging.Get(logging.CategoryDebugging)
	log.Debug("summing", zap.Ints("numbers", cfg.Samples.Numbers))
	return debugging.ReportSum(cmd.OutOrStdout(), cfg.Samples.Numbers)
}

func runDivide(cmd *cobra.Command, args []string) error {
	log := logging.Get(logging.CategoryDebugging)
	log.Debug("dividing", zap.Int("numerator", cfg.Samples.Numerator), zap.Ints("divisors", cfg.Samples.Divisors))
	return debugging.ReportDivisions(cmd.OutOrStdout(), cfg.Samples.Numerator, cfg.Samples.Divisors)
}

func runValidateEmail(cmd *cobra.Command, args []string) error {
	status, err := debugging.ReportEmail(cmd.OutOrStdout(), cfg.Samples.Email)
	logging.Get(logging.CategoryDebugging).Debug("email validated", zap.Stringer("status", status))
	return err
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logging.StartTimer(logging.CategoryPipeline, "process").Stop()

	detached := cfg.Pipeline.Detach
	if cmd.Flags().Changed("detach") {
		detached = detach
	}

	opts := []pipeline.Option{
		pipeline.WithOutput(cmd.OutOrStdout()),
		pipeline.WithLogger(logging.Get(logging.CategoryPipeline)),
		pipeline.WithSamples(cfg.Samples),
		pipeline.WithDetach(detached),
	}

	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		m, err := pipeline.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		opts = append(opts, pipeline.WithMetrics(m))
	}

	svc := pipeline.New(opts...)
	if err := svc.Run(ctx); err != nil {
		return err
	}
	if !detached {
		logMetrics(reg)
	}
	return nil
}

// logMetrics dumps the collected step metrics at debug level.
func logMetrics(reg *prometheus.Registry) {
	if reg == nil {
		return
	}
	log := logging.Get(logging.CategoryMetrics)
	families, err := reg.Gather()
	if err != nil {
		log.Warn("failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("name", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			if c := m.GetCounter(); c != nil {
				fields = append(fields, zap.Float64("value", c.GetValue()))
			}
			if h := m.GetHistogram(); h != nil {
				fields = append(fields, zap.Uint64("count", h.GetSampleCount()), zap.Float64("sum", h.GetSampleSum()))
			}
			log.Debug("metric", fields...)
		}
	}
}
