package fsm

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/Hierarch/pkg/errors"
)

func TestDelegate_PostsInOrder(t *testing.T) {
	box := newMailbox[testEvent]()
	box.open()
	d := Delegate[testKind, testEvent]{owner: stateID(kA1), box: box}
	clone := d

	require.NoError(t, d.RequestEvent(ev("first")))
	require.NoError(t, clone.RequestTransition(kB))
	require.NoError(t, d.RequestEvent(ev("second")))

	got := box.drain()
	require.Len(t, got, 3)
	assert.Equal(t, cmdEvent, got[0].kind)
	assert.Equal(t, "first", got[0].event.name)
	assert.Equal(t, cmdTransition, got[1].kind)
	assert.Equal(t, stateID(kB), got[1].target)
	assert.Equal(t, stateID(kA1), got[1].from)
	assert.Equal(t, "second", got[2].event.name)

	assert.Empty(t, box.drain())
	assert.Equal(t, kA1, clone.Owner())
}

func TestDelegate_NotConnected(t *testing.T) {
	var zero Delegate[testKind, testEvent]
	err := zero.RequestTransition(kA)
	assert.True(t, stderrors.Is(err, errors.ErrDelegateNotConnected), "got %v", err)

	box := newMailbox[testEvent]()
	box.open()
	d := Delegate[testKind, testEvent]{owner: stateID(kA), box: box}
	require.NoError(t, d.RequestEvent(ev("queued")))
	box.close()

	err = d.RequestEvent(ev("late"))
	assert.True(t, stderrors.Is(err, errors.ErrDelegateNotConnected), "got %v", err)
	err = d.RequestTransition(kB)
	assert.True(t, stderrors.Is(err, errors.ErrDelegateNotConnected), "got %v", err)
	assert.Empty(t, box.drain())
}

func TestDelegate_RejectedWhileSealed(t *testing.T) {
	box := newMailbox[testEvent]()
	d := Delegate[testKind, testEvent]{owner: stateID(kA2), box: box}

	err := d.RequestTransition(kB1)
	assert.True(t, stderrors.Is(err, errors.ErrRequestOutsideDispatch), "got %v", err)

	box.open()
	require.NoError(t, d.RequestEvent(ev("inside")))
	box.seal()
	assert.Empty(t, box.drain(), "sealing drops what was not reaped")

	err = d.RequestEvent(ev("after"))
	assert.True(t, stderrors.Is(err, errors.ErrRequestOutsideDispatch), "got %v", err)
}
