package progress

import (
	"log/slog"
	"strconv"
	"strings"

	"prism/internal/logging"
)

// LogBackend renders progress as structured log lines, sampled through a
// logging.ProgressSampler so slow consumers are not flooded with updates.
type LogBackend struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler

	name   string
	action string
}

// NewLogBackend logs through logger (nil means a no-op logger).
func NewLogBackend(logger *slog.Logger) *LogBackend {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogBackend{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(0),
	}
}

func (b *LogBackend) Start(name, action string) {
	b.name = name
	b.action = action
	b.sampler.Reset()
	b.logger.Info("task started", logging.String("task", name), logging.String("action", action))
}

func (b *LogBackend) Update(text string) {
	if !b.sampler.ShouldLog(parsePercent(text), b.action) {
		return
	}
	b.logger.Info("task progress",
		logging.String("task", b.name),
		logging.String("progress", text))
}

func (b *LogBackend) Stop() {
	b.logger.Info("task stopped", logging.String("task", b.name))
}

func (b *LogBackend) Write(message string) {
	b.logger.Info(message, logging.String("task", b.name))
}

// parsePercent extracts the percentage from a composed progress string
// ("42.0%" or "3/7 frames (42.9%)"); -1 when the text carries none.
func parsePercent(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" || !strings.HasSuffix(text, "%") && !strings.HasSuffix(text, "%)") {
		return -1
	}
	if idx := strings.LastIndexByte(text, '('); idx >= 0 {
		text = strings.TrimSuffix(text[idx+1:], ")")
	}
	text = strings.TrimSuffix(text, "%")
	pct, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return -1
	}
	return pct
}
