package mapgen

import (
	"slices"

	"github.com/pthm-cable/anthill/gridwalk"
)

// room is an open region surviving the size threshold. Connections are
// indices into the rooms slice of the same run.
type room struct {
	tiles      []gridwalk.Point
	edges      []gridwalk.Point // Tiles with a 4-neighbour wall
	connected  []int
	accessible bool
	main       bool
}

func (r *room) size() int { return len(r.tiles) }

func (r *room) isConnected(other int) bool {
	return slices.Contains(r.connected, other)
}

// processRegions erases small wall clusters, fills small rooms and connects
// the surviving rooms so every one is reachable from the largest. The room
// holding the map centre is never filled. Rooms are returned largest first.
func (c *cave) processRegions() []room {
	threshold := c.opts.threshold()

	wallRegions := gridwalk.Regions(c.w, c.h, c.wall)
	for _, region := range wallRegions {
		if len(region) < threshold {
			for _, p := range region {
				c.walls[c.idx(p.X, p.Y)] = false
			}
		}
	}

	ctr := c.center()
	open := func(x, y int) bool { return !c.wall(x, y) }
	var rooms []room
	for _, region := range gridwalk.Regions(c.w, c.h, open) {
		if len(region) < threshold && !slices.Contains(region, ctr) {
			for _, p := range region {
				c.walls[c.idx(p.X, p.Y)] = true
			}
			continue
		}
		rooms = append(rooms, room{tiles: region})
	}
	if len(rooms) == 0 {
		return nil
	}

	for i := range rooms {
		rooms[i].edges = c.edgeTiles(rooms[i].tiles)
	}
	// Stable so equal-size rooms keep scan order and runs stay deterministic.
	slices.SortStableFunc(rooms, func(a, b room) int { return b.size() - a.size() })
	rooms[0].main = true
	rooms[0].accessible = true

	c.connectClosestRooms(rooms)
	c.forceAccessibility(rooms)
	return rooms
}

func (c *cave) edgeTiles(tiles []gridwalk.Point) []gridwalk.Point {
	var edges []gridwalk.Point
	for _, t := range tiles {
		for _, d := range [4]gridwalk.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			x, y := t.X+d.X, t.Y+d.Y
			if c.inRange(x, y) && c.wall(x, y) {
				edges = append(edges, t)
				break
			}
		}
	}
	return edges
}

// closestPair finds the nearest pair of edge tiles between rooms a and b by
// squared distance.
func closestPair(a, b *room) (ta, tb gridwalk.Point, dist int, ok bool) {
	for _, pa := range a.edges {
		for _, pb := range b.edges {
			dx, dy := pa.X-pb.X, pa.Y-pb.Y
			d := dx*dx + dy*dy
			if !ok || d < dist {
				ta, tb, dist, ok = pa, pb, d, true
			}
		}
	}
	return ta, tb, dist, ok
}

// connectClosestRooms links every room that has no connection yet to its
// nearest room it is not already linked to.
func (c *cave) connectClosestRooms(rooms []room) {
	for a := range rooms {
		if len(rooms[a].connected) > 0 {
			continue
		}
		var (
			bestA, bestB gridwalk.Point
			bestRoom     int
			bestDist     int
			found        bool
		)
		for b := range rooms {
			if a == b || rooms[a].isConnected(b) {
				continue
			}
			ta, tb, d, ok := closestPair(&rooms[a], &rooms[b])
			if ok && (!found || d < bestDist) {
				bestA, bestB, bestRoom, bestDist, found = ta, tb, b, d, true
			}
		}
		if found {
			c.createPassage(rooms, a, bestRoom, bestA, bestB)
		}
	}
}

// forceAccessibility repeatedly joins the globally closest pair of an
// inaccessible and an accessible room until every room is reachable from the
// main room.
func (c *cave) forceAccessibility(rooms []room) {
	for {
		var (
			bestA, bestB   gridwalk.Point
			roomA, roomB   int
			bestDist       int
			found, pending bool
		)
		for a := range rooms {
			if rooms[a].accessible {
				continue
			}
			pending = true
			for b := range rooms {
				if !rooms[b].accessible || rooms[a].isConnected(b) {
					continue
				}
				ta, tb, d, ok := closestPair(&rooms[a], &rooms[b])
				if ok && (!found || d < bestDist) {
					bestA, bestB, roomA, roomB, bestDist, found = ta, tb, a, b, d, true
				}
			}
		}
		if !pending || !found {
			return
		}
		c.createPassage(rooms, roomA, roomB, bestA, bestB)
	}
}

func (c *cave) createPassage(rooms []room, a, b int, ta, tb gridwalk.Point) {
	switch {
	case rooms[a].accessible:
		setAccessible(rooms, b)
	case rooms[b].accessible:
		setAccessible(rooms, a)
	}
	rooms[a].connected = append(rooms[a].connected, b)
	rooms[b].connected = append(rooms[b].connected, a)
	c.carve(ta, tb)
}

// setAccessible marks room i and everything linked to it as reachable.
func setAccessible(rooms []room, i int) {
	stack := []int{i}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if rooms[r].accessible {
			continue
		}
		rooms[r].accessible = true
		stack = append(stack, rooms[r].connected...)
	}
}
