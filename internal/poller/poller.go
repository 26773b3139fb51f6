package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/ah-ledger/internal/ledger"
)

// Pass runs one ledger pass.
type Pass interface {
	Run(ctx context.Context) (ledger.Result, error)
}

// PassFunc is a function adapter for Pass.
type PassFunc func(ctx context.Context) (ledger.Result, error)

func (f PassFunc) Run(ctx context.Context) (ledger.Result, error) {
	return f(ctx)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Time between pass starts (default: 1h)
	Timeout  time.Duration // Per-pass timeout, 0 for none
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: time.Hour,
	}
}

// State describes the latest completed pass.
type State struct {
	Runs      int       `json:"runs"`
	Status    string    `json:"status,omitempty"`
	Error     string    `json:"error,omitempty"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Finished  time.Time `json:"finished,omitzero"`
}

// Poller periodically runs ledger passes.
type Poller struct {
	cfg    Config
	pass   Pass
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	state State
}

// New creates a new Poller.
func New(cfg Config, pass Pass, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Poller{
		cfg:    cfg,
		pass:   pass,
		logger: logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("ledger poller started",
		"interval", p.cfg.Interval,
		"timeout", p.cfg.Timeout,
	)

	return nil
}

// Stop cancels any pass in flight and waits for the loop to exit.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("ledger poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the outcome of the latest pass.
func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Run immediately on start.
	p.runOnce()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runOnce()
		}
	}
}

// runOnce executes a single pass and records its outcome.
func (p *Poller) runOnce() {
	ctx := p.ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.ctx, p.cfg.Timeout)
		defer cancel()
	}

	res, err := p.pass.Run(ctx)

	status := res.Status().String()
	if err != nil {
		status = ledger.StatusFailed.String()
		if p.ctx.Err() == nil {
			p.logger.Error("ledger pass failed", "err", err)
		}
	}

	p.mu.Lock()
	p.state.Runs++
	p.state.Status = status
	p.state.Error = ""
	if err != nil {
		p.state.Error = err.Error()
	}
	p.state.Succeeded = res.Succeeded
	p.state.Failed = res.Failed
	p.state.Finished = time.Now()
	p.mu.Unlock()
}
