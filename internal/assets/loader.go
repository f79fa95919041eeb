package assets

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/logger"
	"github.com/aalavandhaann/mesh-outline/internal/scene"
)

// Result is a finished load. Exactly one of Node and Err is set.
type Result struct {
	Source Source
	Node   *scene.Node
	Err    error
}

// Loader runs Manager.Load on background goroutines so the render thread
// never waits on file IO or extraction.
type Loader struct {
	manager *Manager
	results chan Result
	wg      sync.WaitGroup
	log     *zap.Logger
}

// NewLoader creates a loader. Up to buffer finished results are held until
// polled; further loads wait for the render thread to catch up.
func NewLoader(manager *Manager, buffer int) *Loader {
	return &Loader{
		manager: manager,
		results: make(chan Result, max(buffer, 1)),
		log:     logger.Named("loader"),
	}
}

// Load starts loading src. If ctx is cancelled before the result is
// delivered, the result is dropped.
func (l *Loader) Load(ctx context.Context, src Source) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		node, err := l.manager.Load(src)
		if ctx.Err() != nil {
			l.log.Debug("load cancelled", zap.String("name", src.Name()))
			return
		}
		if err != nil {
			l.log.Warn("load failed", zap.String("name", src.Name()), zap.Error(err))
		}

		select {
		case l.results <- Result{Source: src, Node: node, Err: err}:
		case <-ctx.Done():
			l.log.Debug("load cancelled", zap.String("name", src.Name()))
		}
	}()
}

// Poll returns a finished result without blocking.
func (l *Loader) Poll() (Result, bool) {
	select {
	case r := <-l.results:
		return r, true
	default:
		return Result{}, false
	}
}

// Wait blocks until every started load has delivered or dropped its result.
// Results must be polled concurrently once more than the buffer are pending.
func (l *Loader) Wait() {
	l.wg.Wait()
}
