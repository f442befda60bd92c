package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"payregister/internal/platform/metrics"
)

type RunOptions struct {
	Inputs   Paths
	Output   string
	Strategy string
	Format   string
	// PayslipsDir enables per-row PDF payslips when set.
	PayslipsDir string
}

type RunResult struct {
	RunID    string
	Rows     []RegisterRow
	Summary  Summary
	Timings  Timings
	Payslips []string
	Stats    map[string]ReadStats
}

type Service struct {
	store    StoreAPI
	payslips PayslipAPI
	logger   logrus.FieldLogger
	metrics  *metrics.Collector
}

func NewService(store StoreAPI, payslips PayslipAPI, logger logrus.FieldLogger, collector *metrics.Collector) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{store: store, payslips: payslips, logger: logger, metrics: collector}
}

// Run reads the three inputs, joins them, and writes the register sorted by
// Key. The output file is not created when reading or joining fails.
func (s *Service) Run(ctx context.Context, opts RunOptions) (result RunResult, err error) {
	strategy := normalizeStrategy(opts.Strategy)
	log := s.logger.WithFields(logrus.Fields{"strategy": strategy, "output": opts.Output})
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordRun(strategy, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return RunResult{}, err
	}
	joiner, err := NewJoiner(strategy)
	if err != nil {
		return RunResult{}, err
	}
	if _, err := registerWriter(opts.Format); err != nil {
		return RunResult{}, err
	}
	if opts.PayslipsDir != "" && s.payslips == nil {
		return RunResult{}, errors.New("payslips requested but no payslip writer configured")
	}

	result.RunID = uuid.NewString()
	log = log.WithField("run_id", result.RunID)
	start := time.Now()

	src, closeSources, err := s.store.OpenSources(opts.Inputs)
	if err != nil {
		return RunResult{}, err
	}
	defer func() { _ = closeSources() }()

	rows, read, err := s.join(joiner, src)
	result.Stats = sourceStats(src)
	if err != nil {
		log.WithError(err).Error("register join failed")
		return RunResult{}, err
	}
	computed := time.Since(start)
	result.Timings.Read = read
	result.Timings.Compute = computed - read

	if err := ctx.Err(); err != nil {
		return RunResult{}, err
	}

	writeStart := time.Now()
	if err := s.store.WriteRegister(opts.Output, opts.Format, rows); err != nil {
		log.WithError(err).Error("register write failed")
		return RunResult{}, &OutputError{Path: opts.Output, Err: err}
	}
	if opts.PayslipsDir != "" {
		paths, err := s.payslips.WritePayslips(opts.PayslipsDir, rows)
		if err != nil {
			log.WithError(err).Error("payslip write failed")
			return RunResult{}, &OutputError{Path: opts.PayslipsDir, Err: err}
		}
		result.Payslips = paths
	}
	result.Timings.Write = time.Since(writeStart)
	result.Timings.Total = time.Since(start)

	result.Rows = rows
	result.Summary = Summarize(rows)
	s.observe(result)

	log.WithFields(logrus.Fields{
		"rows":       len(rows),
		"payslips":   len(result.Payslips),
		"read_ms":    result.Timings.Read.Milliseconds(),
		"compute_ms": result.Timings.Compute.Milliseconds(),
		"write_ms":   result.Timings.Write.Milliseconds(),
		"total_ms":   result.Timings.Total.Milliseconds(),
	}).Info("register written")
	return result, nil
}

// Compute joins already-open sources and returns the register sorted by Key.
func (s *Service) Compute(ctx context.Context, src Sources, strategy string) ([]RegisterRow, error) {
	strategy = normalizeStrategy(strategy)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	joiner, err := NewJoiner(strategy)
	if err != nil {
		return nil, err
	}
	rows, _, err := s.join(joiner, src)
	if s.metrics != nil {
		s.metrics.RecordRun(strategy, err)
	}
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"strategy": strategy, "rows": len(rows)}).Debug("register computed")
	return rows, nil
}

// join runs joiner over timed cursors and returns the sorted rows along with
// the time spent reading.
func (s *Service) join(joiner Joiner, src Sources) ([]RegisterRow, time.Duration, error) {
	var read time.Duration
	timed := Sources{
		Payroll:  &timedCursor[PayrollRecord]{src: src.Payroll, spent: &read},
		Time:     &timedCursor[TimeRecord]{src: src.Time, spent: &read},
		Benefits: &timedCursor[BenefitsRecord]{src: src.Benefits, spent: &read},
	}
	rows, err := joiner.Join(timed)
	if err != nil {
		return nil, read, err
	}
	SortRows(rows)
	return rows, read, nil
}

func (s *Service) observe(result RunResult) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObservePhase(PhaseRead, result.Timings.Read)
	s.metrics.ObservePhase(PhaseCompute, result.Timings.Compute)
	s.metrics.ObservePhase(PhaseWrite, result.Timings.Write)
	s.metrics.ObservePhase(PhaseTotal, result.Timings.Total)
	for kind, stats := range result.Stats {
		s.metrics.AddRecords(kind, "read", stats.Rows-stats.Skipped)
		s.metrics.AddRecords(kind, "skipped", stats.Skipped)
	}
	s.metrics.AddRecords("register", "written", len(result.Rows))
}

func normalizeStrategy(strategy string) string {
	if strategy == "" {
		return StrategyHash
	}
	return strategy
}

func sourceStats(src Sources) map[string]ReadStats {
	stats := make(map[string]ReadStats, 3)
	if r, ok := src.Payroll.(statsReporter); ok {
		stats["payroll"] = r.Stats()
	}
	if r, ok := src.Time.(statsReporter); ok {
		stats["time"] = r.Stats()
	}
	if r, ok := src.Benefits.(statsReporter); ok {
		stats["benefits"] = r.Stats()
	}
	return stats
}

type timedCursor[T Keyed] struct {
	src   Cursor[T]
	spent *time.Duration
}

func (c *timedCursor[T]) Next() (T, bool, error) {
	start := time.Now()
	record, ok, err := c.src.Next()
	*c.spent += time.Since(start)
	return record, ok, err
}
