package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

type Task interface {
	Run(ctx context.Context) error
	Name() string
}

// RunAll 并发运行所有 task, 任意一个退出后取消其余 task.
// 因 ctx 结束 (取消或超时) 而返回的错误视为正常退出.
func RunAll(ctx context.Context, tasks ...Task) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			defer cancel()
			slog.Info("task started", "task", task.Name())
			err := task.Run(gctx)
			if err != nil && !stoppedByContext(gctx, err) {
				slog.Error("task failed", "task", task.Name(), "error", err)
				return fmt.Errorf("%s: %w", task.Name(), err)
			}
			slog.Info("task stopped", "task", task.Name())
			return nil
		})
	}
	return g.Wait()
}

func stoppedByContext(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}
