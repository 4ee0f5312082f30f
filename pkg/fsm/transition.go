package fsm

import "github.com/turtacn/Hierarch/pkg/errors"

// findLCA returns the deepest state that is an ancestor of (or equal to) both
// source and target. Transitions to the top state are not allowed, and the
// LCA of a state with itself is undefined.
func findLCA[E Event](h *hierarchy[E], source, target stateID) (stateID, error) {
	if source == target {
		return 0, errors.Newf(errors.ErrCodeLCAOfSameNode, "findLCA",
			"asked for the LCA of %s with itself", h.name(source))
	}
	if target == h.top {
		return 0, errors.Newf(errors.ErrCodeTransitionToTop, "findLCA",
			"top state %s cannot be the target of a transition", h.name(target))
	}
	sourcePath, err := h.pathToRoot(source)
	if err != nil {
		return 0, err
	}
	targetPath, err := h.pathToRoot(target)
	if err != nil {
		return 0, err
	}
	reverse(sourcePath)
	reverse(targetPath)

	lca := sourcePath[0]
	for i := 0; i < len(sourcePath) && i < len(targetPath); i++ {
		if sourcePath[i] != targetPath[i] {
			break
		}
		lca = sourcePath[i]
	}
	return lca, nil
}

// exitPath lists the states to exit when leaving current for a state below
// lca: current first, walking up, lca excluded.
func exitPath[E Event](h *hierarchy[E], current, lca stateID) ([]stateID, error) {
	if !h.contains(current) {
		return nil, errors.Newf(errors.ErrCodeInvalidStateID, "exitPath",
			"state %s was never added", h.name(current))
	}
	var path []stateID
	for id := current; id != lca; {
		path = append(path, id)
		parent, ok := h.parentOf(id)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeImpossibleStateMismatch, "exitPath",
				"%s is not an ancestor of %s", h.name(lca), h.name(current))
		}
		id = parent
	}
	return path, nil
}

// enterPath lists the states to enter on the way from lca down to target,
// root-most first, target last. lca itself is only included when includeLCA
// is set, which happens at init where nothing has been entered yet.
func enterPath[E Event](h *hierarchy[E], target, lca stateID, includeLCA bool) ([]stateID, error) {
	path, err := h.pathToRoot(target)
	if err != nil {
		return nil, err
	}
	reverse(path)
	for i, id := range path {
		if id != lca {
			continue
		}
		if includeLCA {
			return path[i:], nil
		}
		return path[i+1:], nil
	}
	return nil, errors.Newf(errors.ErrCodeImpossibleStateMismatch, "enterPath",
		"%s is not an ancestor of %s", h.name(lca), h.name(target))
}

func reverse(ids []stateID) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// Personal.AI order the ending
