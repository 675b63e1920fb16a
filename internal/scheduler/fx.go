package scheduler

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("scheduler.overdue",
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

// runWorker runs the scan loop on a worker-owned context. The OnStart
// context carries the app start timeout and would stop the loop shortly
// after boot if the goroutine inherited it.
func runWorker(lc fx.Lifecycle, worker *Worker) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
