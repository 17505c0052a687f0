package accounts

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount_Validation(t *testing.T) {
	for _, name := range []string{"", "  ", ".", "a/b"} {
		_, err := NewLeaf(name, "EUR", 1)
		assert.ErrorIs(t, err, ErrInvalidAccount, "leaf name %q", name)
		_, err = NewFolder(name, "EUR")
		assert.ErrorIs(t, err, ErrInvalidAccount, "folder name %q", name)
	}

	_, err := NewFolder("f", "EUR", leaf(t, "a", "EUR", 1), leaf(t, "A", "EUR", 2))
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewLeaf("bad", "EUR", v)
		assert.ErrorIs(t, err, ErrInvalidAccount, "value %v", v)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, leaf(t, "singleton", "EUR", 10).IsTerminal())
	assert.False(t, folder(t, "int_empty", "EUR").IsTerminal())
}

func TestSetValue(t *testing.T) {
	acc := leaf(t, "acc_sv_1", "EUR", 0)
	require.NoError(t, acc.SetValue(101))
	assert.Equal(t, 101.0, acc.Value())

	err := folder(t, "acc_sv_2", "EUR").SetValue(101)
	assert.ErrorIs(t, err, ErrFolderAccount)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorIs(t, acc.SetValue(v), ErrInvalidAccount, "value %v", v)
	}
	assert.Equal(t, 101.0, acc.Value())
}

func TestFind(t *testing.T) {
	tree := sampleTree(t)

	got, err := tree.Find(Path{})
	require.NoError(t, err)
	assert.Same(t, tree, got)

	got, err = tree.Find(MustParsePath("Sa1/sA01"))
	require.NoError(t, err)
	assert.Equal(t, "sa01", got.Name)
	assert.Equal(t, 12.0, got.Value())

	got, err = tree.Find(MustParsePath("sa3/x"))
	require.NoError(t, err)
	assert.Equal(t, 100000.0, got.Value())

	_, err = tree.Find(MustParsePath("a/x"))
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Contains(t, err.Error(), "no match for a in acc2")

	_, err = tree.Find(MustParsePath("sa0/y"))
	assert.ErrorIs(t, err, ErrTerminalAccount)

	lone := leaf(t, "acc", "EUR", 100)
	got, err = lone.Find(Path{})
	require.NoError(t, err)
	assert.Same(t, lone, got)
}

func TestFind_AmbiguousSiblings(t *testing.T) {
	tree := folder(t, "root", "EUR", leaf(t, "bank", "EUR", 1))
	// Corrupt the tree past the constructor checks.
	tree.children = append(tree.children, &Account{Name: "BANK", Unit: "EUR"})

	_, err := tree.Find(MustParsePath("bank"))
	assert.ErrorIs(t, err, ErrAmbiguousAccount)
}

func TestAdd(t *testing.T) {
	tree := sampleTree(t)

	require.NoError(t, tree.Add(MustParsePath("sa3/y"), leaf(t, "z", "JPY", 5)))
	got, err := tree.Find(MustParsePath("sa3/y/z"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Value())

	err = tree.Add(MustParsePath("sa1"), leaf(t, "SA00", "EUR", 1))
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	err = tree.Add(MustParsePath("sa0"), leaf(t, "child", "EUR", 1))
	assert.ErrorIs(t, err, ErrTerminalAccount)

	err = tree.Add(MustParsePath("nope"), leaf(t, "child", "EUR", 1))
	assert.ErrorIs(t, err, ErrAccountNotFound)

	require.NoError(t, tree.Add(Path{}, folder(t, "new", "USD")))
	names := []string{}
	for _, c := range tree.Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"sa0", "sa1", "sa3", "new"}, names, "children keep insertion order")
}

func TestRemove(t *testing.T) {
	tree := sampleTree(t)

	err := tree.Remove(MustParsePath("sa1"))
	assert.ErrorIs(t, err, ErrFolderNotEmpty)

	require.NoError(t, tree.Remove(MustParsePath("sa1/sa00")))
	require.NoError(t, tree.Remove(MustParsePath("sa3/y")))
	_, err = tree.Find(MustParsePath("sa3/y"))
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Len(t, tree.Children()[1].Children(), 1)

	assert.ErrorIs(t, tree.Remove(Path{}), ErrInvalidPath)
	assert.ErrorIs(t, tree.Remove(MustParsePath("missing")), ErrAccountNotFound)
}

func TestClone(t *testing.T) {
	tree := sampleTree(t)
	c := tree.Clone()
	assert.Empty(t, tree.Diff(c))

	sa0, err := c.Find(MustParsePath("sa0"))
	require.NoError(t, err)
	require.NoError(t, sa0.SetValue(1))

	orig, err := tree.Find(MustParsePath("sa0"))
	require.NoError(t, err)
	assert.Equal(t, 102.0, orig.Value(), "clone must not share nodes")
}

func TestWalk(t *testing.T) {
	var paths []string
	err := sampleTree(t).Walk(func(p Path, _ *Account) error {
		paths = append(paths, p.String())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{".", "sa0", "sa1", "sa1/sa00", "sa1/sa01", "sa3", "sa3/x", "sa3/y"}, paths)

	stop := errors.New("stop")
	count := 0
	err = sampleTree(t).Walk(func(Path, *Account) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart(ChartPersonal, "EUR")
	require.Len(t, chart, 4)
	for _, acc := range chart {
		assert.False(t, acc.IsTerminal())
		assert.Equal(t, "EUR", acc.Unit)
	}

	assert.Empty(t, DefaultChart(ChartEmpty, "EUR"))
	assert.Empty(t, DefaultChart("unknown", "EUR"), "unknown templates fall back to the empty chart")

	_, err := NewFolder("root", "EUR", DefaultChart(ChartPersonal, "EUR")...)
	require.NoError(t, err)
}
