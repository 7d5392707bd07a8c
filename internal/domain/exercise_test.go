package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimatedSeconds_PrefersExplicitDuration(t *testing.T) {
	duration := 90
	e := Exercise{Sets: 3, Reps: 12, Duration: &duration}

	assert.Equal(t, 90, e.EstimatedSeconds())
}

func TestEstimatedSeconds_FallsBackToPerRepEstimate(t *testing.T) {
	e := Exercise{Sets: 4, Reps: 10}

	assert.Equal(t, 4*10*SecondsPerRep, e.EstimatedSeconds())
}
