package effect

import (
	"strconv"
	"strings"
)

// mergeHandlePrefix prefixes the named target handles of a Merge.
const mergeHandlePrefix = "input-"

// MergeHandle returns the name of the i-th Merge input handle.
func MergeHandle(i int) string {
	return mergeHandlePrefix + strconv.Itoa(i)
}

// ParseMergeHandle returns the index encoded in a Merge handle name.
func ParseMergeHandle(h string) (int, bool) {
	rest, ok := strings.CutPrefix(h, mergeHandlePrefix)
	if !ok || rest == "" {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 || strconv.Itoa(i) != rest {
		return 0, false
	}
	return i, true
}

// HasSource reports whether nodes of this spec expose an output handle.
func HasSource(s Spec) bool {
	_, isExport := s.(Export)
	return s != nil && !isExport
}

// HasTarget reports whether nodes of this spec accept incoming edges.
func HasTarget(s Spec) bool {
	switch s.(type) {
	case nil, File, Text:
		return false
	default:
		return true
	}
}

// TargetHandles returns the names of the target handles of s. Single-input
// effects have exactly one handle named "".
func TargetHandles(s Spec) []string {
	if !HasTarget(s) {
		return nil
	}
	m, ok := s.(Merge)
	if !ok {
		return []string{""}
	}
	n := Normalize(m).(Merge).InputCount
	handles := make([]string, n)
	for i := range handles {
		handles[i] = MergeHandle(i)
	}
	return handles
}
