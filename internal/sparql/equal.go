package sparql

// Equal reports whether a and b are structurally equal: same node variants,
// same nesting, and the same children up to sibling order. Nil nodes are
// equal only to each other.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// Unique returns nodes with structural duplicates removed. The first node
// of each equivalence class is kept and the input order is preserved.
func Unique[T Node](nodes []T) []T {
	seen := make(map[string]struct{}, len(nodes))
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		k := n.Key().String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	return out
}
