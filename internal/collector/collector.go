// Package collector drives measurement cycles: probe every target, append
// the outcome to the result log, recompute statistics, publish the summary.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wellsgz/vigil/internal/config"
	"github.com/wellsgz/vigil/internal/probe"
	"github.com/wellsgz/vigil/internal/report"
	"github.com/wellsgz/vigil/internal/stats"
	"github.com/wellsgz/vigil/internal/storage"
)

// Publisher hands the finished summary document off to a downstream store.
// It runs after the document is durable on disk; its failures never abort a
// cycle.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Collector owns the probes and runs cycles against the configured targets.
// Each cycle is self-contained: the collector keeps no state between cycles
// beyond the persisted logs.
type Collector struct {
	cfg       *config.Config
	store     storage.Store
	probes    map[string]probe.Probe
	publisher Publisher
	logger    *zap.Logger

	// Event broadcasting
	subscribers map[chan report.CycleReport]struct{}
	subMu       sync.RWMutex

	// Lifecycle for the continuous modes
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a collector for the given configuration.
func New(cfg *config.Config, store storage.Store, logger *zap.Logger) *Collector {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Collector{
		cfg:         cfg,
		store:       store,
		probes:      make(map[string]probe.Probe, len(cfg.Targets)),
		logger:      logger,
		subscribers: make(map[chan report.CycleReport]struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}

	for _, target := range cfg.Targets {
		p := probe.NewHTTPProbe(target.Name, target.URL, cfg.Global.Timeout)
		p.Method = cfg.Probe.Method
		p.UserAgent = cfg.Probe.UserAgent
		p.ExpectedContent = target.ExpectedContent
		c.probes[target.Name] = p
		logger.Info("created probe",
			zap.String("target", target.Name),
			zap.String("url", target.URL))
	}

	return c
}

// SetPublisher attaches an optional downstream publisher.
func (c *Collector) SetPublisher(p Publisher) {
	c.publisher = p
}

// Targets returns the configured targets.
func (c *Collector) Targets() []config.Target {
	return c.cfg.Targets
}

// Store returns the underlying result store.
func (c *Collector) Store() storage.Store {
	return c.store
}

// RunCycle probes every configured target once, persists the measurements,
// recomputes statistics, writes the summary document and triggers publishing.
// A failure on one target never aborts the others; per-target failures are
// carried in the returned reports.
func (c *Collector) RunCycle(ctx context.Context) []report.CycleReport {
	reports := make([]report.CycleReport, len(c.cfg.Targets))

	var wg sync.WaitGroup
	for i, target := range c.cfg.Targets {
		wg.Add(1)
		go func(i int, target config.Target) {
			defer wg.Done()
			reports[i] = c.checkTarget(ctx, target)
		}(i, target)
	}
	wg.Wait()

	doc := report.BuildDocument(reports)
	if err := c.store.WriteDocument(report.SummaryFilename, doc); err != nil {
		c.logger.Error("failed to write summary document", zap.Error(err))
	} else if c.publisher != nil {
		if err := c.publisher.Publish(ctx); err != nil {
			c.logger.Error("publish failed", zap.Error(err))
		}
	}

	for _, r := range reports {
		c.broadcast(r)
	}

	return reports
}

// checkTarget runs the full probe→append→aggregate sequence for one target.
func (c *Collector) checkTarget(ctx context.Context, target config.Target) report.CycleReport {
	r := report.CycleReport{Target: target}

	p, ok := c.probes[target.Name]
	if !ok {
		r.Err = fmt.Errorf("no probe for target %q", target.Name)
		return r
	}

	m, err := p.Execute(ctx)
	if err != nil {
		// Configuration-level failure: nothing was measured.
		r.Err = err
		c.logger.Error("check not attempted",
			zap.String("target", target.Name),
			zap.Error(err))
		return r
	}
	r.Measurement = &m

	if m.Success {
		c.logger.Info("check ok",
			zap.String("target", target.Name),
			zap.Intp("status", m.StatusCode),
			zap.Float64("latency_ms", m.ResponseTimeMs))
	} else {
		c.logger.Warn("check failed",
			zap.String("target", target.Name),
			zap.String("reason", m.ErrorString()),
			zap.Float64("latency_ms", m.ResponseTimeMs))
	}

	if err := c.store.Append(target.Name, m); err != nil {
		r.Err = fmt.Errorf("append measurement: %w", err)
		c.logger.Error("failed to persist measurement",
			zap.String("target", target.Name),
			zap.Error(err))
		return r
	}

	all, err := c.store.ReadAll(target.Name)
	if err != nil {
		r.Err = fmt.Errorf("read history: %w", err)
		return r
	}
	tail, err := c.store.ReadTail(target.Name, c.cfg.Global.Window)
	if err != nil {
		r.Err = fmt.Errorf("read window: %w", err)
		return r
	}

	r.Lifetime = stats.Compute(all)
	r.Recent = stats.Compute(tail)
	r.RecentMeasurements = tail

	return r
}

// Start begins running cycles at the configured interval until Stop is
// called. The first cycle runs immediately.
func (c *Collector) Start() {
	c.logger.Info("starting collection",
		zap.Duration("interval", c.cfg.Global.Interval),
		zap.Int("targets", len(c.cfg.Targets)))

	c.RunCycle(c.ctx)

	ticker := time.NewTicker(c.cfg.Global.Interval)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-c.ctx.Done():
				c.logger.Info("stopping collection")
				return
			case <-ticker.C:
				c.RunCycle(c.ctx)
			}
		}
	}()
}

// Stop stops the interval loop and closes all subscriber channels.
func (c *Collector) Stop() {
	c.cancel()
	c.wg.Wait()

	c.subMu.Lock()
	for ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, ch)
	}
	c.subMu.Unlock()

	c.logger.Info("collector stopped")
}

// Subscribe returns a channel that receives every per-target cycle report.
func (c *Collector) Subscribe() <-chan report.CycleReport {
	ch := make(chan report.CycleReport, 100) // Buffered to prevent blocking

	c.subMu.Lock()
	c.subscribers[ch] = struct{}{}
	c.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber
func (c *Collector) Unsubscribe(ch <-chan report.CycleReport) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for subCh := range c.subscribers {
		if subCh == ch {
			close(subCh)
			delete(c.subscribers, subCh)
			return
		}
	}
}

// broadcast sends a cycle report to all subscribers
func (c *Collector) broadcast(r report.CycleReport) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for ch := range c.subscribers {
		select {
		case ch <- r:
		default:
			// Subscriber buffer full, skip to avoid blocking the cycle
		}
	}
}
