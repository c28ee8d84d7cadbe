package tracker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpt(t *testing.T) {
	var omitted Opt[float64]
	assert.False(t, omitted.IsSet())
	assert.Nil(t, omitted.Value())
	assert.Equal(t, 3.5, omitted.Or(3.5))

	given := Some(0.0)
	v, ok := given.Get()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, 0.0, given.Value())
	assert.Equal(t, 0.0, given.Or(3.5))

	assert.Equal(t, omitted, None[float64]())
}

func TestParseScope(t *testing.T) {
	for _, s := range []string{"page", "visit"} {
		scope, err := ParseScope(s)
		require.NoError(t, err)
		assert.Equal(t, Scope(s), scope)
	}

	for _, s := range []string{"", "Page", "session"} {
		_, err := ParseScope(s)
		assert.ErrorIs(t, err, ErrInvalidScope, s)
	}

	assert.Equal(t, ScopeVisit, DefaultScope)
}

func TestParseLinkType(t *testing.T) {
	lt, err := ParseLinkType("download")
	require.NoError(t, err)
	assert.Equal(t, LinkTypeDownload, lt)

	lt, err = ParseLinkType("link")
	require.NoError(t, err)
	assert.Equal(t, LinkTypeLink, lt)

	_, err = ParseLinkType("outlink")
	assert.ErrorIs(t, err, ErrInvalidLinkType)
}

func TestVisitorID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  VisitorID
		valid bool
	}{
		{name: "lower hex", input: "a1b2c3d4e5f6a1b2", want: "a1b2c3d4e5f6a1b2", valid: true},
		{name: "upper hex normalised", input: "A1B2C3D4E5F6A1B2", want: "a1b2c3d4e5f6a1b2", valid: true},
		{name: "too short", input: "a1b2c3", valid: false},
		{name: "too long", input: "a1b2c3d4e5f6a1b2c3", valid: false},
		{name: "not hex", input: "a1b2c3d4e5f6a1bz", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVisitorID(tt.input)
			if !tt.valid {
				assert.ErrorIs(t, err, ErrInvalidVisitorID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}

	random := RandomVisitorID()
	assert.Len(t, string(random), 16)
	assert.True(t, random.Valid())
	assert.NotEqual(t, random, RandomVisitorID())
}

func TestCategory(t *testing.T) {
	single := SingleCategory("Books")
	assert.False(t, single.IsList())
	assert.Equal(t, "Books", single.Value())

	names := []string{"Books", "Fiction"}
	list := CategoryList(names...)
	names[0] = "changed"
	assert.True(t, list.IsList())
	assert.Equal(t, []string{"Books", "Fiction"}, list.Value())

	// A one-element list stays a list.
	one := CategoryList("Books")
	assert.True(t, one.IsList())
	assert.Equal(t, []string{"Books"}, one.Value())

	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal(list)
		require.NoError(t, err)
		assert.JSONEq(t, `["Books","Fiction"]`, string(data))

		var decoded Category
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, list, decoded)

		require.NoError(t, json.Unmarshal([]byte(`"Books"`), &decoded))
		assert.Equal(t, single, decoded)

		assert.Error(t, json.Unmarshal([]byte(`42`), &decoded))
	})
}
