package slotmatcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

func TestRequiredDuration(t *testing.T) {
	services := []domain.Service{
		{ID: 1, DurationMinutes: 45},
		{ID: 2, DurationMinutes: 30},
		{ID: 3, DurationMinutes: 20},
	}

	assert.Equal(t, 45, RequiredDuration(services))
	assert.Equal(t, 45, PolicyMax.RequiredDuration(services))
	assert.Equal(t, 95, PolicySum.RequiredDuration(services))
	assert.Equal(t, 0, RequiredDuration(nil))
}

func TestRequiredSlots(t *testing.T) {
	tests := map[int]int{
		0:   0,
		-5:  0,
		1:   1,
		30:  1,
		31:  2,
		45:  2,
		60:  2,
		61:  3,
		540: 18,
	}

	for duration, want := range tests {
		assert.Equal(t, want, RequiredSlots(duration), "duration=%d", duration)
	}
}

func TestParseDurationPolicy(t *testing.T) {
	p, err := ParseDurationPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyMax, p)

	p, err = ParseDurationPolicy("sum")
	require.NoError(t, err)
	assert.Equal(t, PolicySum, p)

	_, err = ParseDurationPolicy("avg")
	assert.Error(t, err)
}

func TestPropose(t *testing.T) {
	slots, err := domain.GenerateDaySlots(nil)
	require.NoError(t, err)
	schedule := domain.Schedule{Date: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), Slots: slots}
	services := []domain.Service{{ID: 1, DurationMinutes: 60}, {ID: 2, DurationMinutes: 30}}
	asOf := time.Date(2026, 10, 18, 16, 0, 0, 0, time.UTC)

	maxPlan := PolicyMax.Propose(schedule, services, asOf)
	assert.Equal(t, 60, maxPlan.RequiredDuration)
	assert.Equal(t, 2, maxPlan.RequiredSlots)
	assert.Len(t, maxPlan.Eligible, 4) // 16:00..17:30
	assert.Equal(t, [][]int64{{14, 15}, {16, 17}}, maxPlan.RunIDs())

	sumPlan := PolicySum.Propose(schedule, services, asOf)
	assert.Equal(t, 3, sumPlan.RequiredSlots)
	assert.Equal(t, [][]int64{{14, 15, 16}}, sumPlan.RunIDs())
}
