package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Editor metrics. Registered once on the default registry and shared by every
// session in the process.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stage",
		Subsystem: "engine",
		Name:      "tick_duration_seconds",
		Help:      "Time spent draining queued work and compiling the draw list per tick.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033},
	})

	tickTasks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stage",
		Subsystem: "engine",
		Name:      "tick_tasks_total",
		Help:      "Deferred tasks run by ticks.",
	})

	commandsPushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stage",
		Subsystem: "history",
		Name:      "commands_pushed_total",
		Help:      "Undoable commands recorded, by command type.",
	}, []string{"type"})

	replays = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stage",
		Subsystem: "history",
		Name:      "replays_total",
		Help:      "Undo and redo steps, by direction and effective command type.",
	}, []string{"direction", "type"})

	operationsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stage",
		Subsystem: "engine",
		Name:      "operations_total",
		Help:      "Operations applied through Apply, by operation and result.",
	}, []string{"op", "result"})
)
