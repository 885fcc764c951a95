package policy

import (
	"testing"

	"pinpoint/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestRequiresExtraFee(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm *float64
		expected   bool
	}{
		{name: "nil distance defaults to no fee", distanceKm: nil, expected: false},
		{name: "below threshold", distanceKm: floatPtr(2.9), expected: false},
		{name: "exactly at threshold is inclusive", distanceKm: floatPtr(3.0), expected: true},
		{name: "above threshold", distanceKm: floatPtr(5.0), expected: true},
		{name: "zero distance", distanceKm: floatPtr(0), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RequiresExtraFee(tt.distanceKm))
		})
	}
}

func TestEvaluate_ComputesDistanceAndFlag(t *testing.T) {
	address := &entity.Address{
		Latitude:  floatPtr(24.7136),
		Longitude: floatPtr(46.6753),
	}
	contact := &entity.FallbackContact{
		Latitude:  floatPtr(24.7200),
		Longitude: floatPtr(46.6900),
	}

	Evaluate(address, contact)

	require.NotNil(t, contact.DistanceKm)
	assert.InDelta(t, 1.66, *contact.DistanceKm, 0.05)
	assert.False(t, contact.RequiresExtraFee)

	// Moving the contact across town flips the classification.
	contact.Latitude = floatPtr(24.8500)
	contact.Longitude = floatPtr(46.9000)

	Evaluate(address, contact)

	require.NotNil(t, contact.DistanceKm)
	assert.Greater(t, *contact.DistanceKm, ExtendedDistanceKm)
	assert.True(t, contact.RequiresExtraFee)
}

func TestEvaluate_MissingCoordinatesClearsDistance(t *testing.T) {
	address := &entity.Address{} // not pinned yet
	contact := &entity.FallbackContact{
		Latitude:   floatPtr(24.7200),
		Longitude:  floatPtr(46.6900),
		DistanceKm: floatPtr(12.0), // stale value from a previous evaluation
	}

	Evaluate(address, contact)

	assert.Nil(t, contact.DistanceKm, "unset coordinates must clear the distance, not zero it")
	assert.False(t, contact.RequiresExtraFee)
}

func TestEvaluate_RecomputeOnAddressMove(t *testing.T) {
	// A previously-standard contact becomes extended when the parent address moves.
	address := &entity.Address{
		Latitude:  floatPtr(24.7136),
		Longitude: floatPtr(46.6753),
	}
	contact := &entity.FallbackContact{
		Latitude:  floatPtr(24.7200),
		Longitude: floatPtr(46.6900),
	}

	Evaluate(address, contact)
	require.False(t, contact.RequiresExtraFee)

	address.Latitude = floatPtr(24.6800)
	address.Longitude = floatPtr(46.9500)

	Evaluate(address, contact)
	assert.True(t, contact.RequiresExtraFee)
}

func TestValidateGate_ExtendedContactMissingEverything(t *testing.T) {
	contact := &entity.FallbackContact{
		DistanceKm:       floatPtr(5.0),
		RequiresExtraFee: true,
	}

	fieldErrors := ValidateGate(contact)

	require.Len(t, fieldErrors, 3)
	fields := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields = append(fields, fe.Field)
		assert.NotEmpty(t, fe.Message)
	}
	assert.ElementsMatch(t, []string{"scheduled_date", "scheduled_time_slot", "extra_fee_acknowledged"}, fields)
}

func TestValidateGate_ExtendedContactPartiallySatisfied(t *testing.T) {
	contact := &entity.FallbackContact{
		DistanceKm:           floatPtr(4.2),
		RequiresExtraFee:     true,
		ScheduledDate:        "2026-09-01",
		ExtraFeeAcknowledged: true,
	}

	fieldErrors := ValidateGate(contact)

	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "scheduled_time_slot", fieldErrors[0].Field)
}

func TestValidateGate_StandardContactSkipsGate(t *testing.T) {
	contact := &entity.FallbackContact{
		DistanceKm:       floatPtr(2.9),
		RequiresExtraFee: false,
	}

	assert.Nil(t, ValidateGate(contact))
}

func TestValidateGate_NilDistanceSkipsGate(t *testing.T) {
	contact := &entity.FallbackContact{}

	assert.Nil(t, ValidateGate(contact))
}

func TestValidateGate_BlankStringsDoNotSatisfyGate(t *testing.T) {
	contact := &entity.FallbackContact{
		RequiresExtraFee:     true,
		ScheduledDate:        "   ",
		ScheduledTimeSlot:    "",
		ExtraFeeAcknowledged: true,
	}

	fieldErrors := ValidateGate(contact)
	require.Len(t, fieldErrors, 2)
}
