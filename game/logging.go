package game

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// progressInterval is the wall time between headless progress lines.
const progressInterval = 5 * time.Second

// logProgress reports headless throughput at most once per progressInterval.
func (g *Game) logProgress() {
	now := time.Now()
	if now.Sub(g.lastProgress) < progressInterval {
		return
	}
	if g.lastProgress.IsZero() {
		g.lastProgress = now
		return
	}
	g.lastProgress = now

	tick := g.engine.TickCount()
	wall := now.Sub(g.started)
	simTime := time.Duration(g.engine.Elapsed() * float64(time.Millisecond))
	spawned, culled := g.engine.Population()

	slog.Info("progress",
		"tick", humanize.Comma(tick),
		"sim_time", simTime.Round(time.Second).String(),
		"wall", wall.Round(time.Second).String(),
		"ticks_per_sec", humanize.CommafWithDigits(float64(tick)/wall.Seconds(), 0),
		"fish", humanize.Comma(int64(g.engine.Count())),
		"spawned", humanize.Comma(int64(spawned)),
		"culled", humanize.Comma(int64(culled)),
	)
}
