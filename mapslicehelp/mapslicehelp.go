package mapslicehelp

import (
	"github.com/umpc/go-sortedmap"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/exp/constraints"
)

func AsKeys[T constraints.Ordered](elements []T) map[T]struct{} {
	mapped := make(map[T]struct{}, len(elements))
	for _, element := range elements {
		mapped[element] = struct{}{}
	}
	return mapped
}

func OrderedMapKeys[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []K {
	l := make([]K, m.Len())
	i := 0
	for p := m.Oldest(); p != nil; p = p.Next() {
		l[i] = p.Key
		i++
	}
	return l
}

func OrderedMapValues[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []V {
	l := make([]V, m.Len())
	i := 0
	for p := m.Oldest(); p != nil; p = p.Next() {
		l[i] = p.Value
		i++
	}
	return l
}

// SortedMapValues returns the values of a sorted map in sort order, asserted to V.
func SortedMapValues[V any](m *sortedmap.SortedMap) []V {
	mmap := m.Map()
	keys := m.Keys()
	l := make([]V, 0, len(keys))
	for _, key := range keys {
		l = append(l, mmap[key].(V))
	}
	return l
}
