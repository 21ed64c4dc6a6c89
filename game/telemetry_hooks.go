package game

import "log/slog"

// flushTelemetry closes the stats window once it has covered its simulated
// duration, then logs and writes the window and any highlights.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.engine.Elapsed()) {
		return
	}

	g.engine.SnapshotInto(&g.snap)
	stats := g.collector.Flush(&g.snap)
	perfStats := g.perfCollector.Stats()
	g.lastWindow = &stats

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, h := range g.highlights.Check(stats) {
		if g.logStats {
			h.LogHighlight()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteHighlight(h); err != nil {
				slog.Error("failed to write highlight", "error", err)
			}
		}
	}
}
