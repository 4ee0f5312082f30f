package fsm

import (
	"fmt"
	"sort"

	"github.com/turtacn/Hierarch/pkg/errors"
)

// node is one registered state. It is created by the builder and owned by
// the hierarchy for the lifetime of the engine.
type node[E Event] struct {
	id    stateID
	state State[E]
}

// hierarchy owns every registered state plus the child -> parent links.
// A state absent from parents is the top state.
type hierarchy[E Event] struct {
	nodes   map[stateID]*node[E]
	parents map[stateID]stateID
	top     stateID
	name    func(stateID) string
}

func newHierarchy[E Event](top stateID, name func(stateID) string) *hierarchy[E] {
	return &hierarchy[E]{
		nodes:   make(map[stateID]*node[E]),
		parents: make(map[stateID]stateID),
		top:     top,
		name:    name,
	}
}

func (h *hierarchy[E]) get(id stateID) (*node[E], bool) {
	n, ok := h.nodes[id]
	return n, ok
}

func (h *hierarchy[E]) contains(id stateID) bool {
	_, ok := h.nodes[id]
	return ok
}

// parentOf returns false only for the top state once validate has passed.
func (h *hierarchy[E]) parentOf(id stateID) (stateID, bool) {
	p, ok := h.parents[id]
	return p, ok
}

// children returns the direct children of id ordered by id.
func (h *hierarchy[E]) children(id stateID) []stateID {
	var out []stateID
	for child, parent := range h.parents {
		if parent == id {
			out = append(out, child)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// pathToRoot returns [id, parent(id), ..., top], inclusive on both ends.
func (h *hierarchy[E]) pathToRoot(id stateID) ([]stateID, error) {
	if !h.contains(id) {
		return nil, errors.Newf(errors.ErrCodeInvalidStateID, "pathToRoot",
			"state %s was never added", h.name(id))
	}
	path := []stateID{id}
	current := id
	for {
		parent, ok := h.parentOf(current)
		if !ok {
			return path, nil
		}
		if !h.contains(parent) {
			return nil, errors.Newf(errors.ErrCodeImpossibleStateMismatch, "pathToRoot",
				"expected state %s to have parent %s but it was never added", h.name(current), h.name(parent))
		}
		if len(path) > len(h.nodes) {
			return nil, errors.Newf(errors.ErrCodeParentCycle, "pathToRoot",
				"parent chain of %s does not terminate", h.name(id))
		}
		path = append(path, parent)
		current = parent
	}
}

// validate checks that every id in the parent map is a registered state and
// that the links form one tree rooted at top. It runs once at build time.
func (h *hierarchy[E]) validate() error {
	for child, parent := range h.parents {
		if !h.contains(child) {
			return errors.Newf(errors.ErrCodeDanglingParent, "validate",
				"state %s has a parent entry but was never added", h.name(child))
		}
		if !h.contains(parent) {
			return errors.Newf(errors.ErrCodeDanglingParent, "validate",
				"state %s references undefined parent %s", h.name(child), h.name(parent))
		}
	}
	if !h.contains(h.top) {
		return errors.Newf(errors.ErrCodeMissingTopState, "validate",
			"top state %s was never added", h.name(h.top))
	}
	if _, ok := h.parents[h.top]; ok {
		return errors.Newf(errors.ErrCodeTopHasParent, "validate",
			"top state %s must not have a parent", h.name(h.top))
	}
	for id := range h.nodes {
		if id == h.top {
			continue
		}
		if _, ok := h.parents[id]; !ok {
			return errors.Newf(errors.ErrCodeMultipleTopState, "validate",
				"state %s has no parent, only %s may be the top state", h.name(id), h.name(h.top))
		}
		path, err := h.pathToRoot(id)
		if err != nil {
			return err
		}
		if path[len(path)-1] != h.top {
			return errors.New(errors.ErrCodeMultipleTopState, "validate",
				fmt.Sprintf("state %s does not descend from %s", h.name(id), h.name(h.top)), nil)
		}
	}
	return nil
}

// Personal.AI order the ending
