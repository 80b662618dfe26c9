package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"phone8ez/domain/core"
	"phone8ez/domain/dataset"
	"phone8ez/internal"
	"phone8ez/internal/metrics"
)

// Mode selects the storage target for dataset persistence
type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

// ParseMode parses a mode name. An empty string means local.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLocal:
		return ModeLocal, nil
	case ModeCloud:
		return ModeCloud, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// File is an encoded export ready to be saved
type File struct {
	Name        string
	ContentType string
	Body        []byte
	Checksum    core.Hash
}

// Saver delivers an exported file to the user (a download, a path on disk)
type Saver interface {
	Save(ctx context.Context, file File) error
}

// SaverFunc adapts a function to Saver
type SaverFunc func(ctx context.Context, file File) error

func (f SaverFunc) Save(ctx context.Context, file File) error {
	return f(ctx, file)
}

// Replacer is the externally owned collection an import writes into
type Replacer interface {
	ReplaceDatasets(datasets dataset.Collection)
}

// Config holds exchange settings
type Config struct {
	FilePrefix string
	Location   *time.Location
	MaxBytes   int64
}

// DefaultConfig returns the settings used by the web server
func DefaultConfig() Config {
	return Config{
		FilePrefix: "phone8ez",
		Location:   time.Local,
		MaxBytes:   32 << 20,
	}
}

// Manager exports and imports dataset collections
type Manager struct {
	cfg    Config
	now    func() time.Time
	logger *internal.Logger

	// held for the duration of an import so only one read is in flight
	importMu sync.Mutex
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source used for file names
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger
func WithLogger(l *internal.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager, filling unset config fields from DefaultConfig
func NewManager(cfg Config, opts ...Option) *Manager {
	def := DefaultConfig()
	if cfg.FilePrefix == "" {
		cfg.FilePrefix = def.FilePrefix
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	m := &Manager{cfg: cfg, now: time.Now, logger: internal.DefaultLogger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Export encodes datasets and saves them under a timestamped file name.
// In cloud mode nothing is saved and ErrCloudReserved is returned. An empty
// collection fails with ErrEmptyCollection before the saver is touched.
func (m *Manager) Export(ctx context.Context, datasets dataset.Collection, mode Mode, saver Saver) (File, error) {
	switch mode {
	case ModeCloud:
		metrics.ExchangeTotal.WithLabelValues("export", string(mode), metrics.ResultReserved).Inc()
		return File{}, ErrCloudReserved
	case ModeLocal:
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if len(datasets) == 0 {
		metrics.ExchangeTotal.WithLabelValues("export", string(mode), metrics.ResultRejected).Inc()
		return File{}, ErrEmptyCollection
	}

	body, err := Encode(datasets)
	if err != nil {
		return File{}, err
	}

	file := File{
		Name:        FileName(m.cfg.FilePrefix, m.now().In(m.cfg.Location)),
		ContentType: "application/json",
		Body:        body,
		Checksum:    core.NewHash(body),
	}

	if err := saver.Save(ctx, file); err != nil {
		return File{}, fmt.Errorf("failed to save %s: %w", file.Name, err)
	}

	metrics.ExchangeTotal.WithLabelValues("export", string(mode), metrics.ResultOK).Inc()
	metrics.ExchangeBytes.WithLabelValues("export").Observe(float64(len(body)))
	m.logger.Info("[Export] saved %s: %d datasets, %d bytes, sha256 %s", file.Name, len(datasets), len(body), file.Checksum.Short())
	return file, nil
}

// Import reads r, validates it and replaces dst with the decoded datasets.
// dst is only touched after the whole file has validated; every failure
// leaves it exactly as it was.
func (m *Manager) Import(ctx context.Context, r io.Reader, mode Mode, dst Replacer) (dataset.Collection, error) {
	switch mode {
	case ModeCloud:
		metrics.ExchangeTotal.WithLabelValues("import", string(mode), metrics.ResultReserved).Inc()
		return nil, ErrCloudReserved
	case ModeLocal:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	m.importMu.Lock()
	defer m.importMu.Unlock()

	content, err := m.read(r)
	if err != nil {
		metrics.ExchangeTotal.WithLabelValues("import", string(mode), metrics.ResultRejected).Inc()
		m.logger.Warn("[Import] read failed: %v", err)
		return nil, err
	}

	datasets, err := Decode(content)
	if err != nil {
		metrics.ExchangeTotal.WithLabelValues("import", string(mode), metrics.ResultRejected).Inc()
		m.logger.Warn("[Import] rejected %d byte file: %v", len(content), err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dst.ReplaceDatasets(datasets)

	metrics.ExchangeTotal.WithLabelValues("import", string(mode), metrics.ResultOK).Inc()
	metrics.ExchangeBytes.WithLabelValues("import").Observe(float64(len(content)))
	m.logger.Info("[Import] replaced collection with %d datasets", len(datasets))
	return datasets, nil
}

func (m *Manager) read(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no file selected", ErrFileRead)
	}
	content, err := io.ReadAll(io.LimitReader(r, m.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	if int64(len(content)) > m.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: file is larger than %d bytes", ErrFileRead, m.cfg.MaxBytes)
	}
	return content, nil
}

// Message returns the user-facing text for an exchange error
func Message(err error) string {
	var elemErr *ElementError
	switch {
	case errors.As(err, &elemErr):
		return elemErr.Error()
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
