package vkboot

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestLedgerReverseOrder(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 32} {
		l, err := NewLedger(32)
		require.NoError(t, err)

		var order []int
		for i := 0; i < n; i++ {
			require.NoError(t, l.Add("entry", func(r interface{}) error {
				order = append(order, r.(int))
				return nil
			}, i))
		}
		require.Equal(t, n, l.Len())
		require.NoError(t, l.Cleanup())

		require.Len(t, order, n)
		for i, v := range order {
			require.Equal(t, n-1-i, v, "entry %d of %d", i, n)
		}
		require.Equal(t, 0, l.Len())
	}
}

func TestLedgerCapacity(t *testing.T) {
	_, err := NewLedger(0)
	require.True(t, errors.Is(err, ErrPrecondition))
	_, err = NewLedger(-3)
	require.True(t, errors.Is(err, ErrPrecondition))

	l, err := NewLedger(2)
	require.NoError(t, err)
	require.Equal(t, 2, l.Cap())
	noop := func(interface{}) error { return nil }
	require.NoError(t, l.Add("a", noop, nil))
	require.NoError(t, l.Add("b", noop, nil))

	err = l.Add("c", noop, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAllocation))
	require.Contains(t, err.Error(), `"c"`)
	require.Equal(t, 2, l.Len())
}

func TestLedgerAddPreconditions(t *testing.T) {
	var nilLedger *Ledger
	require.True(t, errors.Is(nilLedger.Add("x", func(interface{}) error { return nil }, nil), ErrPrecondition))

	l, err := NewLedger(4)
	require.NoError(t, err)
	require.True(t, errors.Is(l.Add("x", nil, nil), ErrPrecondition))

	require.NoError(t, l.Add("reentrant", func(interface{}) error {
		return l.Add("late", func(interface{}) error { return nil }, nil)
	}, nil))
	err = l.Cleanup()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrPrecondition))

	require.True(t, errors.Is(l.Add("after", func(interface{}) error { return nil }, nil), ErrPrecondition))
}

func TestLedgerCleanupOnce(t *testing.T) {
	l, err := NewLedger(4)
	require.NoError(t, err)
	calls := 0
	require.NoError(t, l.Add("x", func(interface{}) error { calls++; return nil }, nil))
	require.NoError(t, l.Cleanup())

	err = l.Cleanup()
	require.True(t, errors.Is(err, ErrPrecondition))
	require.Equal(t, 1, calls)
}

func TestLedgerCleanupContinuesAfterFailure(t *testing.T) {
	l, err := NewLedger(4)
	require.NoError(t, err)

	var ran []string
	require.NoError(t, l.Add("first", func(interface{}) error {
		ran = append(ran, "first")
		return nil
	}, nil))
	require.NoError(t, l.Add("broken", func(interface{}) error {
		ran = append(ran, "broken")
		return errors.New("boom")
	}, nil))
	require.NoError(t, l.Add("panics", func(interface{}) error {
		ran = append(ran, "panics")
		panic("bad handle")
	}, nil))

	err = l.Cleanup()
	require.Error(t, err)
	require.Contains(t, err.Error(), "panic: bad handle")
	require.Equal(t, []string{"panics", "broken", "first"}, ran)
}
