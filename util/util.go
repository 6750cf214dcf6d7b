package util

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func Tern[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// Assertf panics with a formatted message. For invariants that input data
// cannot break.
func Assertf(cond bool, format string, v ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("Assertion failed: "+format, v...))
	}
}

func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
