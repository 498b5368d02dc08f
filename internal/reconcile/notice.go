package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoticeKind identifies a one-time message for the player
type NoticeKind string

const (
	NoticeUpkeepDeducted NoticeKind = "upkeep_deducted"
	NoticeCrewLost       NoticeKind = "crew_lost"
	NoticeUpkeepFailed   NoticeKind = "upkeep_failed"
)

// Notice is shown to the player once and never stored
type Notice struct {
	Kind           NoticeKind `json:"kind"`
	Message        string     `json:"message"`
	HoursProcessed int        `json:"hours_processed,omitempty"`
	Amount         float64    `json:"amount,omitempty"`
	CrewLost       int        `json:"crew_lost,omitempty"`
	At             time.Time  `json:"at"`
}

// Notifier delivers notices to the player
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notice)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, n Notice) {
	f(ctx, n)
}

// LogNotifier writes notices to a logger
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notice
func (l *LogNotifier) Notify(ctx context.Context, n Notice) {
	level := slog.LevelInfo
	if n.Kind == NoticeUpkeepFailed {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, n.Message,
		slog.String("kind", string(n.Kind)),
		slog.Int("hours_processed", n.HoursProcessed),
		slog.Float64("amount", n.Amount),
		slog.Int("crew_lost", n.CrewLost),
	)
}

// Recorder keeps every notice it is given
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify records the notice
func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns the recorded notices in order
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Kinds returns the kinds of the recorded notices in order
func (r *Recorder) Kinds() []NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]NoticeKind, len(r.notices))
	for i, n := range r.notices {
		kinds[i] = n.Kind
	}
	return kinds
}

// Multi fans notices out to several notifiers in order
type Multi []Notifier

// Notify forwards to every notifier
func (m Multi) Notify(ctx context.Context, n Notice) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}

func formatCash(amount float64) string {
	whole := int64(amount + 0.5)
	s := fmt.Sprintf("%d", whole)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return "$" + s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
