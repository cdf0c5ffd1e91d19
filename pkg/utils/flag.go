package utils

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetTestFlag sets a flag to a specific value for the duration of the test.
func SetTestFlag(t *testing.T, name, value string) {
	t.Helper()
	flagHolder := flag.Lookup(name)
	require.NotNil(t, flagHolder, "Flag %s not found", name)
	prevValue := flagHolder.Value.String()
	// Revert the flag value back to its original when the test is done.
	t.Cleanup(func() { require.NoError(t, flag.Set(name, prevValue)) })
	require.NoError(t, flag.Set(name, value))
}

// SetTestFlags calls SetTestFlag on every name/value pair of `flags`.
func SetTestFlags(t *testing.T, flags map[ /*name*/ string] /*value*/ string) {
	t.Helper()
	for name, value := range flags {
		SetTestFlag(t, name, value)
	}
}
