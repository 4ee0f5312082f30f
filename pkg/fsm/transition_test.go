package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/Hierarch/pkg/errors"
)

func ids(kinds ...testKind) []stateID {
	out := make([]stateID, len(kinds))
	for i, k := range kinds {
		out[i] = stateID(k)
	}
	return out
}

func TestFindLCA(t *testing.T) {
	h := testHierarchy()
	tests := []struct {
		source, target, want testKind
	}{
		{kA1, kA2, kA},
		{kA1, kB1x, kTop},
		{kA1, kA, kA},
		{kA, kA1, kA},
		{kB1x, kB, kB},
		{kA, kB, kTop},
	}
	for _, tt := range tests {
		got, err := findLCA(h, stateID(tt.source), stateID(tt.target))
		require.NoError(t, err)
		assert.Equal(t, stateID(tt.want), got, "LCA(%s, %s)", tt.source, tt.target)
	}
}

func TestFindLCA_Errors(t *testing.T) {
	h := testHierarchy()

	_, err := findLCA(h, stateID(kA1), stateID(kA1))
	assert.True(t, errors.HasCode(err, errors.ErrCodeLCAOfSameNode), "got %v", err)

	_, err = findLCA(h, stateID(kA1), stateID(kTop))
	assert.True(t, errors.HasCode(err, errors.ErrCodeTransitionToTop), "got %v", err)

	_, err = findLCA(h, stateID(kA1), stateID(kInvalid))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidStateID), "got %v", err)
}

func TestFindLCA_Symmetric(t *testing.T) {
	h := testHierarchy()
	for _, a := range allKinds[1:] {
		for _, b := range allKinds[1:] {
			if a == b {
				continue
			}
			ab, err := findLCA(h, stateID(a), stateID(b))
			require.NoError(t, err)
			ba, err := findLCA(h, stateID(b), stateID(a))
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "LCA(%s, %s) != LCA(%s, %s)", a, b, b, a)
		}
	}
}

func TestExitPath(t *testing.T) {
	h := testHierarchy()

	path, err := exitPath(h, stateID(kA1), stateID(kTop))
	require.NoError(t, err)
	assert.Equal(t, ids(kA1, kA), path)

	path, err = exitPath(h, stateID(kB1x), stateID(kB))
	require.NoError(t, err)
	assert.Equal(t, ids(kB1x, kB1), path)

	path, err = exitPath(h, stateID(kA), stateID(kA))
	require.NoError(t, err)
	assert.Empty(t, path)

	_, err = exitPath(h, stateID(kA1), stateID(kB))
	assert.True(t, errors.HasCode(err, errors.ErrCodeImpossibleStateMismatch), "got %v", err)
}

func TestEnterPath(t *testing.T) {
	h := testHierarchy()

	path, err := enterPath(h, stateID(kB1x), stateID(kTop), false)
	require.NoError(t, err)
	assert.Equal(t, ids(kB, kB1, kB1x), path)

	path, err = enterPath(h, stateID(kB1x), stateID(kTop), true)
	require.NoError(t, err)
	assert.Equal(t, ids(kTop, kB, kB1, kB1x), path)

	path, err = enterPath(h, stateID(kA), stateID(kA), false)
	require.NoError(t, err)
	assert.Empty(t, path)

	_, err = enterPath(h, stateID(kA1), stateID(kB), false)
	assert.True(t, errors.HasCode(err, errors.ErrCodeImpossibleStateMismatch), "got %v", err)
}

// Exited states are exactly source's ancestors below the LCA, entered states
// target's, and the two sets never overlap.
func TestExitEnterSymmetry(t *testing.T) {
	h := testHierarchy()
	below := func(k testKind, lca stateID) map[stateID]bool {
		path, err := h.pathToRoot(stateID(k))
		require.NoError(t, err)
		out := make(map[stateID]bool)
		for _, id := range path {
			if id == lca {
				break
			}
			out[id] = true
		}
		return out
	}
	asSet := func(path []stateID) map[stateID]bool {
		out := make(map[stateID]bool)
		for _, id := range path {
			out[id] = true
		}
		return out
	}

	for _, a := range allKinds[1:] {
		for _, b := range allKinds[1:] {
			if a == b {
				continue
			}
			lca, err := findLCA(h, stateID(a), stateID(b))
			require.NoError(t, err)
			exits, err := exitPath(h, stateID(a), lca)
			require.NoError(t, err)
			enters, err := enterPath(h, stateID(b), lca, false)
			require.NoError(t, err)

			assert.Equal(t, below(a, lca), asSet(exits), "%s -> %s exits", a, b)
			assert.Equal(t, below(b, lca), asSet(enters), "%s -> %s enters", a, b)
			for _, id := range exits {
				assert.NotContains(t, enters, id, "%s -> %s both exits and enters %s", a, b, testKind(id))
			}
		}
	}
}
