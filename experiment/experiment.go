// Package experiment keeps a timestamped, append-only log of a manual
// experiment run: events, countdowns, confirmations and free-form notes.
package experiment

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

// Experiment is one run with its own log file.
type Experiment struct {
	Name  string
	RunID uuid.UUID

	path   string
	now    func() time.Time
	tick   time.Duration
	logger log.Logger
}

// Option configures an Experiment.
type Option func(*Experiment)

// WithClock sets the time source used for file names and timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Experiment) { e.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(l log.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// WithTick sets the countdown step. Defaults to one second.
func WithTick(d time.Duration) Option {
	return func(e *Experiment) { e.tick = d }
}

// New creates the log file <dir>/<name>_<YYYYMMDD_HHMMSS>.txt and records the
// start of the experiment.
func New(name, dir string, opts ...Option) (*Experiment, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "experiment name must not be empty", name)
	}
	e := &Experiment{
		Name:   name,
		RunID:  uuid.New(),
		now:    time.Now,
		tick:   time.Second,
		logger: log.GetLoggerWithName("experiment"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(log.ExperimentKey, name, log.RunIDKey, e.RunID.String())

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create directory %s", dir)
	}
	start := e.now()
	e.path = filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, start.Format("20060102_150405")))
	if err := e.Log(fmt.Sprintf("Experiment started: %s at %s", name, start.Format("15:04:05"))); err != nil {
		return nil, err
	}
	e.logger.Info("Created experiment log", log.FilePathKey, e.path)
	return e, nil
}

// Path returns the log file location.
func (e *Experiment) Path() string { return e.path }

// Log appends message to the experiment log.
func (e *Experiment) Log(message string) error {
	if err := LogEvent(e.path, message, e.now()); err != nil {
		return err
	}
	e.logger.Debug("Logged event", log.OperationKey, log.OperationLog, "event", message)
	return nil
}

// Contents returns the whole log.
func (e *Experiment) Contents() (string, error) {
	b, err := os.ReadFile(e.path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(b), nil
}

// LogEvent appends "[HH:MM:SS] message" to the file at path, creating it
// when needed.
func LogEvent(path, message string, now time.Time) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open experiment log %s", path)
	}
	if _, err := fmt.Fprintf(f, "[%s] %s\n", now.Format("15:04:05"), message); err != nil {
		f.Close()
		return errors.Wrapf(err, "write experiment log %s", path)
	}
	return errors.WithStack(f.Close())
}

// Countdown logs the start of label, prints the remaining seconds to out on
// a single line and logs the end. A cancelled ctx is logged and returned.
func (e *Experiment) Countdown(ctx context.Context, seconds int, label string, out io.Writer) error {
	if label == "" {
		label = "Countdown"
	}
	if seconds < 0 {
		return errors.NewValidationError("seconds", "must not be negative", seconds)
	}
	if err := e.Log(fmt.Sprintf("%s started (%d seconds)", label, seconds)); err != nil {
		return err
	}

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	for i := seconds; i > 0; i-- {
		fmt.Fprintf(out, "%s: %d seconds remaining\r", label, i)
		select {
		case <-ctx.Done():
			fmt.Fprintf(out, "%s\r", strings.Repeat(" ", 40))
			if err := e.Log(label + " cancelled"); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
	fmt.Fprintf(out, "%s\r", strings.Repeat(" ", 40))
	return e.Log(label + " ended")
}
