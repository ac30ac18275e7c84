package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/anthill/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the map and colony state at one tick.
type Snapshot struct {
	Version int    `json:"version"`
	MapSeed string `json:"map_seed"`
	RNGSeed int64  `json:"rng_seed"`

	Width    int     `json:"width"`
	Height   int     `json:"height"`
	CellSize float32 `json:"cell_size"`

	Tick int32 `json:"tick"`

	// Rows holds one string per grid row: '#' wall, '.' open.
	Rows []string `json:"rows"`
	// Food holds per-cell food, row-major.
	Food [][]int `json:"food"`

	ColonyX    float32 `json:"colony_x"`
	ColonyY    float32 `json:"colony_y"`
	ColonyFood int     `json:"colony_food"`

	Ants []AntState `json:"ants"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AntState holds one ant's visible state.
type AntState struct {
	ID       uint32           `json:"id"`
	X        float32          `json:"x"`
	Y        float32          `json:"y"`
	Heading  float32          `json:"heading"`
	State    components.State `json:"state"`
	Food     int              `json:"food"`
	Autonomy float32          `json:"autonomy"`
}

// EncodeRows converts a wall map to snapshot rows.
func EncodeRows(walls [][]bool) []string {
	rows := make([]string, len(walls))
	for y, row := range walls {
		var b strings.Builder
		b.Grow(len(row))
		for _, wall := range row {
			if wall {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// Walls decodes the snapshot rows into a wall map.
func (s *Snapshot) Walls() ([][]bool, error) {
	if len(s.Rows) != s.Height {
		return nil, fmt.Errorf("snapshot has %d rows, want %d", len(s.Rows), s.Height)
	}
	walls := make([][]bool, s.Height)
	for y, row := range s.Rows {
		if len(row) != s.Width {
			return nil, fmt.Errorf("snapshot row %d has %d cells, want %d", y, len(row), s.Width)
		}
		walls[y] = make([]bool, s.Width)
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '#':
				walls[y][x] = true
			case '.':
			default:
				return nil, fmt.Errorf("snapshot row %d: unexpected %q at column %d", y, row[x], x)
			}
		}
	}
	return walls, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
