package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDescriptors(t *testing.T) {
	tests := []struct {
		name      string
		in        []Descriptor
		wantField string
		wantIndex int
	}{
		{"negative arrival", []Descriptor{{PID: 1, ArrivalTime: -1, BurstTime: 1}}, "arrival_time", 0},
		{"zero burst", []Descriptor{{PID: 1, BurstTime: 1}, {PID: 2, BurstTime: 0}}, "burst_time", 1},
		{"duplicate pid", []Descriptor{{PID: 4, BurstTime: 1}, {PID: 4, BurstTime: 2}}, "pid", 1},
		{"reserved idle pid", []Descriptor{{PID: IdlePID, BurstTime: 1}}, "pid", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDescriptors(tt.in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantIndex, verr.Index)
		})
	}
}

func TestValidateDescriptors_AcceptsValidInput(t *testing.T) {
	assert.NoError(t, ValidateDescriptors(sampleDescriptors()))
	assert.NoError(t, ValidateDescriptors(nil))
	// negative priorities and non-contiguous pids are fine
	assert.NoError(t, ValidateDescriptors([]Descriptor{{PID: 10, BurstTime: 1, Priority: -3}, {PID: 0, BurstTime: 2}}))
}

func TestValidateDescriptors_RejectsClockOverflow(t *testing.T) {
	tests := []struct {
		name string
		in   []Descriptor
	}{
		{"late arrival", []Descriptor{{PID: 1, ArrivalTime: math.MaxInt64 - 1, BurstTime: 5}}},
		{"total burst", []Descriptor{{PID: 1, BurstTime: math.MaxInt64 / 2}, {PID: 2, BurstTime: math.MaxInt64/2 + 2}}},
		{"arrival plus other bursts", []Descriptor{{PID: 1, BurstTime: 10}, {PID: 2, ArrivalTime: math.MaxInt64 - 5, BurstTime: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDescriptors(tt.in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, -1, verr.Index)
			assert.Contains(t, verr.Msg, "overflows")
		})
	}
}

func TestRun_ClockOverflowNeverProducesNegativeFinish(t *testing.T) {
	// GIVEN a process arriving just below the int64 limit
	ds := []Descriptor{{PID: 1, ArrivalTime: math.MaxInt64 - 1, BurstTime: 5}}

	// WHEN run under fcfs
	res, err := Run(PolicyFCFS, ds, 0)

	// THEN the run is rejected instead of wrapping the clock
	assert.Nil(t, res)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr), "got %v", err)
}

func TestHorizon(t *testing.T) {
	h, ok := Horizon(sampleDescriptors())
	assert.True(t, ok)
	assert.Equal(t, int64(2+5+3+8), h)

	h, ok = Horizon(nil)
	assert.True(t, ok)
	assert.Zero(t, h)

	// exactly at the limit still fits
	h, ok = Horizon([]Descriptor{{PID: 1, ArrivalTime: math.MaxInt64 - 5, BurstTime: 5}})
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), h)

	_, ok = Horizon([]Descriptor{{PID: 1, ArrivalTime: math.MaxInt64 - 4, BurstTime: 5}})
	assert.False(t, ok)
}

func TestErrorMessages(t *testing.T) {
	cerr := &ConfigurationError{Field: "policy", Value: "lottery", Msg: "unknown policy"}
	assert.Equal(t, `configuration error: policy "lottery": unknown policy`, cerr.Error())

	verr := &ValidationError{Index: 2, Field: "burst_time", Msg: "must be at least 1, got 0"}
	assert.Equal(t, "validation error: process[2].burst_time: must be at least 1, got 0", verr.Error())

	qerr := &ValidationError{Index: -1, Field: "quantum", Msg: "must be at least 1"}
	assert.Equal(t, "validation error: quantum: must be at least 1", qerr.Error())
}
