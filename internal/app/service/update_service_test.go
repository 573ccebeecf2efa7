package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"2.0", "1.9.9", 1},
		{"1.10.0", "1.9.0", 1},   // numeric, not lexicographic
		{"1.0", "1.0.0", 0},      // missing segments count as zero
		{"1.0.0", "1.0.0.1", -1},
		{"v1.2.0", "1.1.9", 1},   // leading v is ignored
		{"1.2.3", "v1.2.3", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CompareVersions(tc.a, tc.b), "%s vs %s", tc.a, tc.b)
	}
}
