package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/anthill/mapgen"
	"github.com/pthm-cable/anthill/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sampleColony(), s.grid.Totals())
	perfStats := s.profiler.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if s.outputManager != nil {
			if err := s.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if s.snapshotDir != "" || s.outputManager != nil {
			s.saveSnapshot(&bm)
		}
	}
}

// sampleColony collects the colony state for a stats window.
func (s *Simulation) sampleColony() telemetry.ColonySample {
	agents := s.colony.Agents()
	sample := telemetry.ColonySample{
		MapSeed:   s.mapSeed,
		ByState:   s.colony.StateCounts(),
		Food:      s.colony.Food(),
		TotalAnts: s.colony.TotalAnts(),
		TotalFood: s.colony.TotalFood(),
		Autonomy:  make([]float64, 0, len(agents)),
	}
	for _, a := range agents {
		sample.Autonomy = append(sample.Autonomy, float64(a.Autonomy))
		if a.Found {
			sample.Found++
		}
	}
	return sample
}

// Snapshot captures the map and colony state at the current tick.
func (s *Simulation) Snapshot() *telemetry.Snapshot {
	g := s.grid
	snap := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		MapSeed:    s.mapSeed,
		RNGSeed:    s.rngSeed,
		Width:      g.Width(),
		Height:     g.Height(),
		CellSize:   g.CellSize(),
		Tick:       s.tick,
		Rows:       telemetry.EncodeRows(g.WallMap()),
		Food:       g.FoodMap(),
		ColonyX:    s.colony.X,
		ColonyY:    s.colony.Y,
		ColonyFood: s.colony.Food(),
	}
	for _, a := range s.colony.Agents() {
		snap.Ants = append(snap.Ants, telemetry.AntState{
			ID:       a.ID,
			X:        a.X,
			Y:        a.Y,
			Heading:  a.Heading,
			State:    a.State,
			Food:     a.Food,
			Autonomy: a.Autonomy,
		})
	}
	return snap
}

// saveSnapshot writes a snapshot tagged with bm to the snapshot directory,
// or under the output directory when none is set.
func (s *Simulation) saveSnapshot(bm *telemetry.Bookmark) {
	snap := s.Snapshot()
	snap.Bookmark = bm
	var path string
	var err error
	if s.snapshotDir != "" {
		path, err = telemetry.SaveSnapshot(snap, s.snapshotDir)
	} else {
		path, err = s.outputManager.WriteSnapshot(snap)
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}

// RestoreMap installs the map stored in a snapshot, superseding any map
// request still in flight. The colony restarts from its starting state; ants
// and trails are not restored.
func (s *Simulation) RestoreMap(snap *telemetry.Snapshot) error {
	walls, err := snap.Walls()
	if err != nil {
		return err
	}
	if len(snap.Food) != snap.Height {
		return fmt.Errorf("snapshot food has %d rows, want %d", len(snap.Food), snap.Height)
	}
	for y, row := range snap.Food {
		if len(row) != snap.Width {
			return fmt.Errorf("snapshot food row %d has %d cells, want %d", y, len(row), snap.Width)
		}
	}

	// Snapshot food holds live quantities, so it is installed as is.
	s.install(mapgen.Result{
		Seed:      snap.MapSeed,
		Walls:     walls,
		Food:      snap.Food,
		Final:     true,
		RequestID: s.worker.Supersede(),
	}, false)
	return nil
}
