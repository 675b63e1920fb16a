package clock

import "go.uber.org/fx"

// Module provides the wall clock. Tests hand services a Fixed clock
// directly instead of overriding the graph.
var Module = fx.Module("clock",
	fx.Provide(System),
)
