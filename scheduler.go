package gindex

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// System is a named unit of per-frame work over a World.
type System struct {
	Name string
	Fn   func(ctx context.Context, w *World) error
}

// RunSystems runs systems concurrently and waits for all of them. Each system
// takes the store locks it needs, so systems reading disjoint component types
// or only reading proceed in parallel, while two systems writing the same type
// serialize on that store's lock. There is no ordering between systems; callers
// that need one run the systems in separate RunSystems calls.
//
// A system must not call into w from inside a Storage.Read or Storage.Write
// callback; see Storage.Read. ReadLive, WriteLive, View and Each take the locks
// in the right order.
//
// The context passed to the systems is canceled as soon as one fails. The
// first failure is returned, wrapped with the system's name.
func RunSystems(ctx context.Context, w *World, systems ...System) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sys := range systems {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrapf(err, "system %s not started", sys.Name)
			}
			if err := sys.Fn(gctx, w); err != nil {
				return eris.Wrapf(err, "system %s failed", sys.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.logger.Error().Err(err).Msg("systems failed")
		return err
	}
	return nil
}
