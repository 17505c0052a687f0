package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{".", nil},
		{"a", []string{"a"}},
		{"a/b/c", []string{"a", "b", "c"}},
		{"a/b/c/", []string{"a", "b", "c"}},
		{"Europe/My Bank", []string{"Europe", "My Bank"}},
	}
	for _, tt := range tests {
		p, err := ParsePath(tt.input)
		require.NoError(t, err, "input: %q", tt.input)
		assert.Equal(t, tt.want, p.parts, "input: %q", tt.input)
	}
}

func TestParsePath_Errors(t *testing.T) {
	for _, input := range []string{"/a", "/", "a//b"} {
		_, err := ParsePath(input)
		assert.ErrorIs(t, err, ErrInvalidPath, "input: %q", input)
	}
}

func TestPath_String(t *testing.T) {
	assert.Equal(t, ".", MustParsePath("").String())
	assert.Equal(t, "a/b", MustParsePath("a/b/").String())
}

func TestPath_Parent(t *testing.T) {
	p, err := MustParsePath("a/b/c/").Parent()
	require.NoError(t, err)
	assert.True(t, p.Equal(MustParsePath("a/b")))

	p, err = MustParsePath("a").Parent()
	require.NoError(t, err)
	assert.True(t, p.IsEmpty(), "a singleton has the empty path as parent")

	_, err = Path{}.Parent()
	assert.ErrorIs(t, err, ErrNoParent)
}

func TestPath_Accessors(t *testing.T) {
	p := MustParsePath("europe/bank/checking")
	assert.Equal(t, "europe", p.Root())
	assert.Equal(t, "checking", p.Name())
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "bank/checking", p.Child().String())
	assert.True(t, MustParsePath("x").IsSingleton())
	assert.True(t, MustParsePath("x").Child().IsEmpty())
	assert.True(t, MustParsePath("").IsEmpty())
	assert.Equal(t, "", Path{}.Root())
	assert.Equal(t, "", Path{}.Name())
}

func TestPath_Join(t *testing.T) {
	assert.True(t, MustParsePath("x/").Join("y").Equal(MustParsePath("x/y")))
	assert.True(t, Path{}.Join("y").Equal(MustParsePath("y")))
	assert.Equal(t, "x/y/z", MustParsePath("x").Join("y/z").String())

	base := MustParsePath("a")
	_ = base.Join("b")
	assert.Equal(t, "a", base.String(), "Join must not modify the receiver")
}

func TestPath_JoinPath(t *testing.T) {
	p, err := MustParsePath("a/b").JoinPath(MustParsePath("c"))
	require.NoError(t, err)
	assert.Equal(t, "a/b/c", p.String())

	_, err = Path{}.JoinPath(MustParsePath("c"))
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = MustParsePath("c").JoinPath(Path{})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestPath_EqualIsCaseSensitive(t *testing.T) {
	assert.False(t, MustParsePath("a/B").Equal(MustParsePath("a/b")))
	assert.Equal(t, []string{"a", "B"}, MustParsePath("a/B").Segments())
}
