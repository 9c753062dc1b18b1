package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingStatsEmpty(t *testing.T) {
	n, avg := ratingStats(nil)
	assert.Zero(t, n)
	assert.Zero(t, avg)
}

func TestRatingStatsMean(t *testing.T) {
	reviews := []Review{{Rating: 5}, {Rating: 4}, {Rating: 2}}
	n, avg := ratingStats(reviews)
	assert.Equal(t, 3, n)
	assert.InDelta(t, 11.0/3.0, avg, 1e-9)
}

func TestRatingStatsSingle(t *testing.T) {
	n, avg := ratingStats([]Review{{Rating: 3}})
	assert.Equal(t, 1, n)
	assert.Equal(t, 3.0, avg)
}
