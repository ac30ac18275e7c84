package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstDelivery   BookmarkType = "first_delivery"
	BookmarkHarvestSurge    BookmarkType = "harvest_surge"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkFoodExhausted   BookmarkType = "food_exhausted"
	BookmarkStableColony    BookmarkType = "stable_colony"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a colony's history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	delivered          bool // first delivery already reported
	peakAnts           int  // peak population since the last crash
	hadFood            bool // map held food at some point
	stableWindowsCount int  // consecutive windows with a steady population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable colony detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history. Call when a new map is installed.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize)
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstDelivery(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkHarvestSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPopulationCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFoodExhausted(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStableColony(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.Ants > bd.peakAnts {
		bd.peakAnts = stats.Ants
	}
	if stats.MapFood > 0 {
		bd.hadFood = true
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkFirstDelivery(stats WindowStats) *Bookmark {
	if bd.delivered || stats.FoodDelivered == 0 {
		return nil
	}
	bd.delivered = true
	return &Bookmark{
		Type:        BookmarkFirstDelivery,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First food reached the colony: %d in %d trips", stats.FoodDelivered, stats.Deliveries),
	}
}

func (bd *BookmarkDetector) checkHarvestSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.FoodDelivered
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := float64(stats.FoodDelivered)
	if current > avg*2.0 && stats.Deliveries >= 3 {
		return &Bookmark{
			Type:        BookmarkHarvestSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Delivered %d food, %.1fx the average (%.1f)", stats.FoodDelivered, current/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.peakAnts == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Ants)/float64(bd.peakAnts)
	if drop > 0.30 && stats.Ants < bd.peakAnts-10 {
		oldPeak := bd.peakAnts
		bd.peakAnts = stats.Ants
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Ants),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkFoodExhausted(stats WindowStats) *Bookmark {
	if !bd.hadFood || stats.MapFood > 0 {
		return nil
	}
	bd.hadFood = false
	return &Bookmark{
		Type:        BookmarkFoodExhausted,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Map food exhausted, colony holds %d", stats.ColonyFood),
	}
}

func (bd *BookmarkDetector) checkStableColony(stats WindowStats) *Bookmark {
	if stats.Ants < 10 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	counts := make([]float64, len(recent))
	for i, h := range recent {
		counts[i] = float64(h.Ants)
	}
	mean, variance := stat.PopMeanVariance(counts, nil)

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableColony,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable colony of %d ants over 5+ windows", stats.Ants),
		}
	}
	return nil
}
