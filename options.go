package recgo

import (
	"log/slog"

	"github.com/hupe1980/recgo/graph"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	graphOptions     []graph.Option
}

// Option configures Store constructor behavior.
type Option func(*options)

// WithUndirectedRelations makes every relation symmetric: adding an edge
// a -> b also adds b -> a. The default is directed relations, matching
// the follower-style asymmetry of the data model.
func WithUndirectedRelations() Option {
	return func(o *options) {
		o.graphOptions = append(o.graphOptions, graph.WithUndirected())
	}
}

// WithTraversalOrder sets the neighbor visit policy for depth-first
// traversal. The default is edge insertion order.
func WithTraversalOrder(order graph.Order) Option {
	return func(o *options) {
		o.graphOptions = append(o.graphOptions, graph.WithTraversalOrder(order))
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &recgo.BasicMetricsCollector{}
//	store := recgo.New(recgo.WithMetricsCollector(metrics))
//	// ... use store ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := recgo.NewJSONLogger(slog.LevelInfo)
//	store := recgo.New(recgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
