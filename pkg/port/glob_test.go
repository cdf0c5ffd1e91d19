package port

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchGlob(t *testing.T) {
	keys := []string{"queue1", "queue2", "backlog"}

	for _, testCase := range []struct {
		name     string
		glob     string
		expected []string
	}{
		{name: "match all", glob: "*", expected: []string{"queue1", "queue2", "backlog"}},
		{name: "match with ?", glob: "queue?", expected: []string{"queue1", "queue2"}},
		{name: "match with * at the end", glob: "queue*", expected: []string{"queue1", "queue2"}},
		{name: "match with * at the beginning", glob: "*log", expected: []string{"backlog"}},
		{name: "match with multiple *", glob: "*e*", expected: []string{"queue1", "queue2"}},
		{name: "no match", glob: "nomatch", expected: nil},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			seq, err := matchGlob(testCase.glob, slices.Values(keys))
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, slices.Collect(seq))
		})
	}
}

func TestMatchGlob_StopsEarly(t *testing.T) {
	seq, err := matchGlob("*", slices.Values([]string{"a", "b", "c"}))
	require.NoError(t, err)
	var got []string
	for key := range seq {
		got = append(got, key)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}
