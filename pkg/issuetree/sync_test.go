package issuetree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncFixture(t *testing.T) (*ExpandSync, *Store, *countingNotifier) {
	t.Helper()
	s := newTestStore(t)
	doc := NewDocument()
	doc.RootNodes = testForest()
	require.NoError(t, s.Write(doc))

	notifier := &countingNotifier{}
	return NewExpandSync(s, notifier, 30*time.Millisecond, nil), s, notifier
}

func TestExpandSyncCoalescesBurst(t *testing.T) {
	sync, s, notifier := newSyncFixture(t)
	defer sync.Close()

	// A rapid burst: last write per id wins, one flush for the lot.
	sync.Record("B", true)
	sync.Record("B", false)
	sync.Record("C", true)
	sync.Record("B", true)

	require.Eventually(t, func() bool {
		doc := s.Read()
		b := FindNode(doc.RootNodes, "B")
		c := FindNode(doc.RootNodes, "C")
		return b.Expanded != nil && *b.Expanded && c.Expanded != nil && *c.Expanded
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, notifier.refreshes, "burst flushed exactly once")
}

func TestExpandSyncStripsNamespace(t *testing.T) {
	sync, s, _ := newSyncFixture(t)
	defer sync.Close()

	sync.Record(WithFocusedID("C", "4"), true)
	require.NoError(t, sync.Flush())

	c := FindNode(s.Read().RootNodes, "C")
	require.NotNil(t, c.Expanded)
	assert.True(t, *c.Expanded)
}

func TestExpandSyncDropsUnknownIDs(t *testing.T) {
	sync, s, notifier := newSyncFixture(t)
	defer sync.Close()

	before := s.Read()
	sync.Record("vanished", true)
	require.NoError(t, sync.Flush())

	assert.Equal(t, CollectIDs(before.RootNodes), CollectIDs(s.Read().RootNodes))
	assert.Zero(t, notifier.refreshes, "nothing changed, no refresh")
}

func TestExpandSyncSkipsRedundantWrites(t *testing.T) {
	sync, _, notifier := newSyncFixture(t)
	defer sync.Close()

	sync.Record("B", true)
	require.NoError(t, sync.Flush())
	assert.Equal(t, 1, notifier.refreshes)

	// Same state again: no write, no refresh.
	sync.Record("B", true)
	require.NoError(t, sync.Flush())
	assert.Equal(t, 1, notifier.refreshes)
}

func TestExpandSyncCloseFlushesPending(t *testing.T) {
	sync, s, _ := newSyncFixture(t)

	sync.Record("C", true)
	require.NoError(t, sync.Close())

	c := FindNode(s.Read().RootNodes, "C")
	require.NotNil(t, c.Expanded)
	assert.True(t, *c.Expanded)

	// Records after close are ignored.
	sync.Record("B", true)
	require.NoError(t, sync.Flush())
	b := FindNode(s.Read().RootNodes, "B")
	assert.Nil(t, b.Expanded)
}

func TestExpandSyncFlushEmptyIsNoOp(t *testing.T) {
	sync, _, notifier := newSyncFixture(t)
	defer sync.Close()

	require.NoError(t, sync.Flush())
	assert.Zero(t, notifier.refreshes)
}
