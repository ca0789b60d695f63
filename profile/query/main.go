// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof
//
// An optional argument names a YAML or TOML config file for the world.

package main

import (
	"os"

	"github.com/edwinsyarief/gindex"
	"github.com/pkg/profile"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

func main() {
	cfg := gindex.DefaultConfig()
	if len(os.Args) > 1 {
		loaded, err := gindex.LoadConfig(os.Args[1])
		if err != nil {
			logger := cfg.NewLogger()
			logger.Fatal().Err(err).Msg("failed to load config")
		}
		cfg = loaded
	}
	logger := cfg.NewLogger()

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	w := run(cfg, 50, 100, 10000)
	p.Stop()

	gindex.LogWorld(&logger, w, logger.GetLevel())
}

func run(cfg gindex.Config, rounds, iters, numEntities int) *gindex.World {
	var w *gindex.World
	for range rounds {
		w = gindex.NewWorld(gindex.WithConfig(cfg))
		gindex.Register[position](w)
		gindex.Register[velocity](w)
		for i, e := range w.SpawnN(numEntities) {
			_ = gindex.Set(w, e, position{X: float64(i)})
			if i%2 == 0 {
				_ = gindex.Set(w, e, velocity{X: 1, Y: 1})
			}
		}

		for range iters {
			for e, pv := range gindex.View2[position, velocity](w) {
				gindex.Update(w, e, func(p *position) {
					p.X += pv.B.X
					p.Y += pv.B.Y
				})
			}
		}
	}
	return w
}
