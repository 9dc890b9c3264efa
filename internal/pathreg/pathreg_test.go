package pathreg

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Is is a test shorthand for errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func TestUnion(t *testing.T) {
	tests := []struct {
		name     string
		set      []string
		elems    []string
		want     []string
		wantDups []string
	}{
		{name: "into empty", set: nil, elems: []string{"/a", "/b"}, want: []string{"/a", "/b"}},
		{name: "repeats collapse", set: []string{"/a"}, elems: []string{"/b", "/b/", "/b"}, want: []string{"/a", "/b"}},
		{name: "one present rejects batch", set: []string{"/a"}, elems: []string{"/b", "/a"}, wantDups: []string{"/a"}},
		{name: "all present listed once", set: []string{"/a", "/b"}, elems: []string{"/a", "/b", "/a"}, wantDups: []string{"/a", "/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Union(tt.set, tt.elems)
			if tt.wantDups != nil {
				var dup *DuplicatedTargetsError
				require.True(t, errors.As(err, &dup), "err = %v", err)
				assert.Equal(t, tt.wantDups, dup.Targets)
				assert.True(t, Is(err, ErrDuplicatedTarget))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnion_DoesNotAliasInput(t *testing.T) {
	set := make([]string, 1, 4)
	set[0] = "/a"
	got, err := Union(set, []string{"/b"})
	require.NoError(t, err)
	got[0] = "/changed"
	assert.Equal(t, "/a", set[0])
}

func TestDifference(t *testing.T) {
	set := []string{"/a", "/b", "/c"}
	assert.Equal(t, []string{"/a", "/c"}, Difference(set, []string{"/b/", "/missing"}))
	assert.Equal(t, []string{"/a", "/b", "/c"}, set)
	assert.Empty(t, Difference(set, set))
}

func TestSingle(t *testing.T) {
	err := Single(&DuplicatedTargetsError{Targets: []string{"/a"}})
	assert.True(t, Is(err, ErrDuplicatedTarget))
	var dup *DuplicatedTargetsError
	assert.False(t, errors.As(err, &dup))

	other := errors.New("boom")
	assert.Equal(t, other, Single(other))
	assert.NoError(t, Single(nil))
}

func TestKeys(t *testing.T) {
	b := &nopBackend{}
	assert.Equal(t, []string{"/x/a", "/x/b"}, Keys(b, []string{"/x/a", "/x/b", "/x/a"}))
	assert.Equal(t, "/x", DirKey("/x/a"))
}
