// Package app wires the calculation engine to its configured back ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/footprint/api/footprint"
	"github.com/kilianp07/footprint/auth"
	"github.com/kilianp07/footprint/config"
	"github.com/kilianp07/footprint/core/events"
	"github.com/kilianp07/footprint/core/factors"
	corehistory "github.com/kilianp07/footprint/core/history"
	coremetrics "github.com/kilianp07/footprint/core/metrics"
	"github.com/kilianp07/footprint/core/model"
	coremon "github.com/kilianp07/footprint/core/monitoring"
	"github.com/kilianp07/footprint/core/normalize"
	"github.com/kilianp07/footprint/core/report"
	"github.com/kilianp07/footprint/core/resolve"
	"github.com/kilianp07/footprint/infra/history"
	"github.com/kilianp07/footprint/infra/logger"
	"github.com/kilianp07/footprint/infra/metrics"
	"github.com/kilianp07/footprint/infra/monitoring"
	"github.com/kilianp07/footprint/infra/mqtt"
	"github.com/kilianp07/footprint/infra/remote"
	"github.com/kilianp07/footprint/internal/eventbus"
)

// historyTimeout bounds each best-effort history operation.
const historyTimeout = 5 * time.Second

// Service is the single entry point used by the API and the CLI.
type Service struct {
	cfg      *config.Config
	resolver *resolve.Resolver
	history  corehistory.Repository
	backend  string
	sink     coremetrics.MetricsSink
	bus      *eventbus.Bus[events.Calculated]
	pub      *mqtt.Publisher
	log      logger.Logger

	// mu orders the load-previous/save pair of concurrent calculations.
	mu sync.Mutex
}

// Option overrides a dependency built from the configuration.
type Option func(*Service)

// WithRepository replaces the configured history backend.
func WithRepository(r corehistory.Repository, backend string) Option {
	return func(s *Service) { s.history, s.backend = r, backend }
}

// WithSink replaces the configured metrics sinks.
func WithSink(sink coremetrics.MetricsSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithRemote replaces the HTTP remote client.
func WithRemote(r resolve.Remote) Option {
	return func(s *Service) {
		s.resolver = resolve.New(factors.Default(),
			resolve.WithRemote(r),
			resolve.WithTimeout(s.cfg.Remote.Timeout()),
			resolve.WithLogger(logger.New("resolver")))
	}
}

// New creates a Service from the configuration. cfg must have been loaded
// with config.Load or had SetDefaults applied.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if err := logger.SetGlobalLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	s := &Service{
		cfg: cfg,
		bus: eventbus.New[events.Calculated](),
		log: logger.New("service"),
	}

	resolverOpts := []resolve.Option{resolve.WithLogger(logger.New("resolver"))}
	if cfg.Remote.Enabled() {
		client := remote.NewClient(cfg.Remote, remote.WithAuthorizer(auth.New(cfg.Remote.Token, cfg.Remote.OAuth)))
		resolverOpts = append(resolverOpts, resolve.WithRemote(client), resolve.WithTimeout(cfg.Remote.Timeout()))
	}
	s.resolver = resolve.New(factors.Default(), resolverOpts...)

	for _, o := range opts {
		o(s)
	}

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	if s.history == nil {
		repo, err := history.NewRepository(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		s.history, s.backend = repo, cfg.History.Backend
	}
	if s.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			_ = s.history.Close()
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		s.sink = sink
	}
	if cfg.MQTT.Enabled() {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			_ = s.history.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.pub = pub
	}
	return s, nil
}

// Calculate resolves form, records metrics, saves the snapshot and
// publishes it. History and publication failures are logged, never
// returned.
func (s *Service) Calculate(ctx context.Context, form normalize.RawForm) (report.Report, error) {
	out, err := s.resolver.Resolve(ctx, form)
	if err != nil {
		if errors.Is(err, model.ErrUnknownFactorKind) {
			coremon.CaptureException(err, map[string]string{"module": "calc"})
		}
		return report.Report{}, err
	}
	if out.Cause != nil {
		coremon.CaptureException(out.Cause, map[string]string{"module": "resolve", "reason": string(out.Reason)})
	}

	snap := corehistory.NewSnapshot(out.Source, out.Activity, out.Result)
	shape := ""
	if out.Source == model.SourceRemote {
		shape = out.Shape.String()
	}
	if err := s.sink.RecordCalculation(coremetrics.CalculationEvent{
		ID:       snap.ID,
		Source:   out.Source,
		Reason:   string(out.Reason),
		Shape:    shape,
		Duration: out.Duration,
		Result:   out.Result,
		Time:     snap.Timestamp,
	}); err != nil {
		s.log.Warnf("record calculation metrics: %v", err)
	}

	prev, saveErr := s.save(ctx, snap)
	if rec, ok := s.sink.(coremetrics.HistoryRecorder); ok {
		if err := rec.RecordHistoryWrite(coremetrics.HistoryEvent{Backend: s.backend, Err: saveErr, Time: snap.Timestamp}); err != nil {
			s.log.Warnf("record history metrics: %v", err)
		}
	}

	s.bus.Publish(events.Calculated{
		Snapshot:       snap,
		Reason:         string(out.Reason),
		Shape:          shape,
		Duration:       out.Duration,
		HistoryBackend: s.backend,
		HistoryErr:     saveErr,
	})
	return report.Build(snap, prev, string(out.Reason)), nil
}

// save stores snap and returns the snapshot it replaced. It survives
// cancellation of ctx so that a finished calculation is still kept.
func (s *Service) save(ctx context.Context, snap corehistory.Snapshot) (*corehistory.Snapshot, error) {
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	var prev *corehistory.Snapshot
	last, found, err := s.history.LoadLast(hctx)
	switch {
	case err != nil:
		s.log.Warnf("load previous calculation: %v", err)
	case found:
		prev = &last
	}
	if err := s.history.Save(hctx, snap); err != nil {
		s.log.Warnw("history save failed", map[string]any{
			"backend":        s.backend,
			"calculation_id": snap.ID,
			"error":          err.Error(),
		})
		return prev, err
	}
	return prev, nil
}

// Latest returns the report of the last saved calculation.
func (s *Service) Latest(ctx context.Context) (report.Report, bool, error) {
	hctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()
	snap, found, err := s.history.LoadLast(hctx)
	if err != nil || !found {
		return report.Report{}, found, err
	}
	return report.Build(snap, nil, ""), true, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	return footprint.NewHandler(s, s.cfg.HTTP.Token)
}

// Run serves the HTTP API and, when configured, the Prometheus endpoint
// and MQTT publication until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.pub != nil {
		done := s.pub.Start(ctx, s.bus)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-done
		}()
	}
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer coremon.Recover()
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Address,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.HTTP.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.HTTP.ReadTimeout(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("serving footprint API on %s", s.cfg.HTTP.Address)
	err := srv.ListenAndServe()
	cancel()
	wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.pub != nil {
		s.pub.Close()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.history.Close()
}
