package workspace

import (
	"context"
	"sync"
	"time"

	"phone8ez/domain/core"
	"phone8ez/internal"
	"phone8ez/internal/metrics"
)

// Config controls workspace lifetime
type Config struct {
	HistoryLimit  int
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// DefaultConfig returns unbounded history, a 2h idle TTL and a 5m sweep
func DefaultConfig() Config {
	return Config{
		IdleTTL:       2 * time.Hour,
		SweepInterval: 5 * time.Minute,
	}
}

// Registry maps principals to their workspaces, creating them on first use
type Registry struct {
	cfg    Config
	logger *internal.Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[core.Email]*Workspace
}

// NewRegistry creates an empty registry
func NewRegistry(cfg Config, logger *internal.Logger) *Registry {
	def := DefaultConfig()
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Registry{
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		workspaces: make(map[core.Email]*Workspace),
	}
}

// Get returns the workspace for email, creating it if needed
func (r *Registry) Get(email core.Email) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	// touched under the registry lock so a concurrent Sweep cannot expire
	// a workspace that is being handed out
	if w, ok := r.workspaces[email]; ok {
		w.touch()
		return w
	}
	w := newWorkspace(email, r.cfg.HistoryLimit, r.now)
	r.workspaces[email] = w
	metrics.ActiveWorkspaces.Set(float64(len(r.workspaces)))
	r.logger.Debug("[Registry] created workspace for %s", email)
	return w
}

// Drop closes and forgets the workspace for email
func (r *Registry) Drop(email core.Email) bool {
	r.mu.Lock()
	w, ok := r.workspaces[email]
	if ok {
		delete(r.workspaces, email)
		metrics.ActiveWorkspaces.Set(float64(len(r.workspaces)))
	}
	r.mu.Unlock()

	if ok {
		w.Close()
	}
	return ok
}

// Len returns the number of live workspaces
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep closes workspaces idle for longer than the TTL and returns how many
// were removed
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*Workspace
	for email, w := range r.workspaces {
		if now.Sub(w.LastUsed()) > r.cfg.IdleTTL {
			expired = append(expired, w)
			delete(r.workspaces, email)
		}
	}
	metrics.ActiveWorkspaces.Set(float64(len(r.workspaces)))
	r.mu.Unlock()

	for _, w := range expired {
		w.Close()
	}
	if len(expired) > 0 {
		r.logger.Info("[Registry] swept %d idle workspaces", len(expired))
	}
	return len(expired)
}

// Run sweeps on the configured interval until ctx is cancelled
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("[Registry] janitor stopped")
			return
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}

// CloseAll closes and forgets every workspace. Used on shutdown.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	all := make([]*Workspace, 0, len(r.workspaces))
	for email, w := range r.workspaces {
		all = append(all, w)
		delete(r.workspaces, email)
	}
	metrics.ActiveWorkspaces.Set(0)
	r.mu.Unlock()

	for _, w := range all {
		w.Close()
	}
	return len(all)
}
