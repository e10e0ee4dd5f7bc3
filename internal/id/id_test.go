package id

import "testing"

func TestNewIsUniqueAndSortable(t *testing.T) {
	const n = 1000

	seen := make(map[string]bool, n)
	var prev string
	for i := 0; i < n; i++ {
		s := New()
		if len(s) != 26 {
			t.Fatalf("ULID length = %d, want 26: %q", len(s), s)
		}
		if seen[s] {
			t.Fatalf("duplicate ID %q", s)
		}
		seen[s] = true
		if s < prev {
			t.Fatalf("IDs not monotonic: %q after %q", s, prev)
		}
		prev = s
	}
}
