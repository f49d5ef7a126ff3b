package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func interval(startHour, endHour int) (time.Time, time.Time) {
	day := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd int
		bStart, bEnd int
		want         bool
	}{
		{"identical interval", 10, 11, 10, 11, true},
		{"contained", 10, 12, 10, 11, true},
		{"straddles start", 10, 12, 9, 11, true},
		{"touching end-to-start does not conflict", 10, 11, 11, 12, false},
		{"touching start-to-end does not conflict", 11, 12, 10, 11, false},
		{"disjoint", 8, 9, 10, 11, false},
		{"shifted overlap", 10, 12, 11, 13, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			aStart, aEnd := interval(tc.aStart, tc.aEnd)
			bStart, bEnd := interval(tc.bStart, tc.bEnd)
			assert.Equal(t, tc.want, Overlaps(aStart, aEnd, bStart, bEnd))
		})
	}
}

// Overlapping is a symmetric relation: swapping the two intervals never
// changes the answer.
func TestOverlapsIsSymmetric(t *testing.T) {
	pairs := [][4]int{
		{10, 11, 10, 11},
		{10, 12, 11, 13},
		{10, 11, 11, 12},
		{8, 9, 10, 11},
		{9, 17, 12, 13},
	}
	for _, p := range pairs {
		aStart, aEnd := interval(p[0], p[1])
		bStart, bEnd := interval(p[2], p[3])
		assert.Equal(t,
			Overlaps(aStart, aEnd, bStart, bEnd),
			Overlaps(bStart, bEnd, aStart, aEnd),
			"pair %v", p)
	}
}
