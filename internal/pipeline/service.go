package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"time"

	"debugkit/internal/config"
	"debugkit/internal/debugging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Step names a unit of work run by the orchestrator.
type Step string

const (
	StepProcessData      Step = "processData"
	StepCalculateMetrics Step = "calculateMetrics"
	StepValidateInput    Step = "validateInput"
)

type unit struct {
	step Step
	run  func() error
}

// Service is the data processing orchestrator.
type Service struct {
	out     *syncWriter
	logger  *zap.Logger
	metrics *Metrics
	samples config.SamplesConfig
	detach  bool

	// background units; replaced in tests
	units []unit
	bg    sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithOutput sets where verdicts and failure reports are written.
func WithOutput(w io.Writer) Option {
	return func(s *Service) { s.out = &syncWriter{w: w} }
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics enables step metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithSamples overrides the hard-coded inputs.
func WithSamples(samples config.SamplesConfig) Option {
	return func(s *Service) { s.samples = samples }
}

// WithDetach makes Run return without joining the background units.
func WithDetach(detach bool) Option {
	return func(s *Service) { s.detach = detach }
}

// New creates an orchestrator.
func New(opts ...Option) *Service {
	s := &Service{
		out:     &syncWriter{w: io.Discard},
		logger:  zap.NewNop(),
		samples: config.DefaultSamples(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.units = []unit{
		{step: StepCalculateMetrics, run: func() error {
			_, err := s.CalculateMetrics()
			return err
		}},
		{step: StepValidateInput, run: func() error {
			s.ValidateInput()
			return nil
		}},
	}
	return s
}

// ProcessData sums the sample numbers.
func (s *Service) ProcessData() int {
	total := debugging.SumArray(s.samples.Numbers)
	s.logger.Debug("processed data", zap.Ints("numbers", s.samples.Numbers), zap.Int("sum", total))
	return total
}

// CalculateMetrics divides the sample numerator by every divisor in order.
// The first failing division aborts the rest and is returned with the
// quotients computed so far.
func (s *Service) CalculateMetrics() ([]float64, error) {
	results := make([]float64, 0, len(s.samples.Divisors))
	for _, d := range s.samples.Divisors {
		q, err := debugging.Divide(s.samples.Numerator, d)
		if err != nil {
			return results, fmt.Errorf("divide %d by %d: %w", s.samples.Numerator, d, err)
		}
		s.logger.Debug("calculated metric",
			zap.Int("numerator", s.samples.Numerator),
			zap.Int("divisor", d),
			zap.Float64("quotient", q))
		results = append(results, q)
	}
	return results, nil
}

// ValidateInput validates the sample email and prints the verdict.
func (s *Service) ValidateInput() debugging.EmailStatus {
	status, err := debugging.ReportEmail(s.out, s.samples.Email)
	if err != nil {
		s.logger.Warn("failed to write verdict", zap.Error(err))
	}
	return status
}

// Run executes the sequential step and the two background units.
// It returns only the context error; step failures are reported, not returned.
func (s *Service) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_ = s.guard(StepProcessData, func() error {
		s.ProcessData()
		return nil
	})

	if s.detach {
		for _, u := range s.units {
			u := u
			s.bg.Add(1)
			go func() {
				defer s.bg.Done()
				s.runUnit(ctx, u)
			}()
		}
		s.logger.Debug("background units detached", zap.Int("units", len(s.units)))
		return nil
	}

	// Units return nil so one failure never cancels its sibling.
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range s.units {
		u := u
		g.Go(func() error {
			s.runUnit(gctx, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Wait blocks until detached units have finished.
func (s *Service) Wait() {
	s.bg.Wait()
}

func (s *Service) runUnit(ctx context.Context, u unit) {
	if err := ctx.Err(); err != nil {
		s.metrics.skipped(u.step)
		s.logger.Info("step skipped", zap.String("step", string(u.step)), zap.Error(err))
		return
	}
	_ = s.guard(u.step, u.run)
}

// guard runs fn, converting a panic into a StepError, and reports failures.
func (s *Service) guard(step Step, fn func() error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &StepError{Step: step, Err: fmt.Errorf("%w: %v", ErrPanic, r), Stack: debug.Stack()}
		}
		s.metrics.observe(step, err, time.Since(start))
		if err != nil {
			s.report(err)
		}
	}()

	if ferr := fn(); ferr != nil {
		return &StepError{Step: step, Err: ferr}
	}
	return nil
}

// report prints the failure and its trace, then logs it with a stack.
func (s *Service) report(err error) {
	var trace []byte
	if se, ok := err.(*StepError); ok && se.Stack != nil {
		trace = se.Stack
	} else {
		trace = debug.Stack()
	}

	fmt.Fprintf(s.out, "error in %v\n%s", err, trace)

	s.logger.Error("step failed", zap.Error(err), zap.ByteString("stack", trace))
}

// syncWriter serialises writes from concurrent units so lines never interleave.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
