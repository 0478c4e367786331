package domain

// CheckOrder projects actual onto the members of canonical and compares the
// result against canonical filtered to the members actually present.
// Elements of actual that are not in canonical are ignored. ok is false when
// the two projections differ; expected and got are returned either way.
func CheckOrder(actual, canonical []string) (expected, got []string, ok bool) {
	known := make(map[string]bool, len(canonical))
	for _, name := range canonical {
		known[name] = true
	}

	present := make(map[string]bool, len(actual))
	for _, name := range actual {
		if known[name] {
			got = append(got, name)
			present[name] = true
		}
	}
	for _, name := range canonical {
		if present[name] {
			expected = append(expected, name)
		}
	}

	if len(expected) != len(got) {
		return expected, got, false
	}
	for i := range expected {
		if expected[i] != got[i] {
			return expected, got, false
		}
	}
	return expected, got, true
}
