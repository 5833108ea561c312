// Package hierarchy provides the pure graph traversals shared by the cascading
// soft-delete and the physical trash removal paths.
package hierarchy

import "github.com/google/uuid"

// Edge is one (id, parent) pair from the flat group table.
type Edge struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
}

// CollectDescendantIDs returns rootID plus every id transitively reachable by
// following parent-to-child edges, breadth first. Duplicate edge rows and
// absent children are tolerated; the result contains each id exactly once.
func CollectDescendantIDs(edges []Edge, rootID uuid.UUID) map[uuid.UUID]struct{} {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, e := range edges {
		if e.ParentID != nil {
			children[*e.ParentID] = append(children[*e.ParentID], e.ID)
		}
	}

	collected := map[uuid.UUID]struct{}{rootID: {}}
	queue := []uuid.UUID{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if _, seen := collected[child]; seen {
				continue
			}
			collected[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return collected
}

// RemovalLayers orders the candidate set for physical deletion. Each layer
// holds the candidates whose parent is no longer in the remaining set; it is
// removed, and the process repeats until the set drains. A layer that comes up
// empty while candidates remain means the parent pointers form a cycle, and
// the leftover ids are abandoned rather than looping forever.
func RemovalLayers(edges []Edge, candidates map[uuid.UUID]struct{}) [][]uuid.UUID {
	parent := make(map[uuid.UUID]*uuid.UUID, len(edges))
	for _, e := range edges {
		parent[e.ID] = e.ParentID
	}

	remaining := make(map[uuid.UUID]struct{}, len(candidates))
	for id := range candidates {
		remaining[id] = struct{}{}
	}

	var layers [][]uuid.UUID
	for len(remaining) > 0 {
		var layer []uuid.UUID
		for id := range remaining {
			p := parent[id]
			if p == nil {
				layer = append(layer, id)
				continue
			}
			if _, held := remaining[*p]; !held {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			break
		}
		for _, id := range layer {
			delete(remaining, id)
		}
		layers = append(layers, layer)
	}
	return layers
}
