package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plon/illinispots-sub000/internal/models"
)

func availableStatus(t *testing.T, availableFor int) models.RoomStatus {
	t.Helper()
	return models.RoomStatus{State: models.StateAvailable, AvailableFor: availableFor}
}

func TestMatchesCriteriaNoFilters(t *testing.T) {
	now := tod(t, "14:00")
	assert.True(t, MatchesCriteria(models.RoomStatus{State: models.StateOccupied}, FilterCriteria{}, now))
	assert.True(t, MatchesCriteria(availableStatus(t, 10), FilterCriteria{}, now))
}

func TestMatchesCriteriaRequiresAvailability(t *testing.T) {
	now := tod(t, "14:00")
	criteria := FilterCriteria{MinDuration: 10}

	assert.False(t, MatchesCriteria(models.RoomStatus{State: models.StateOccupied}, criteria, now))
	assert.False(t, MatchesCriteria(models.RoomStatus{State: models.StateOpeningSoon}, criteria, now))
	assert.False(t, MatchesCriteria(models.RoomStatus{State: models.StatePassingPeriod, AvailableFor: 10}, criteria, now))
}

func TestMatchesCriteriaMinDuration(t *testing.T) {
	now := tod(t, "14:00")
	status := availableStatus(t, 45)

	assert.True(t, MatchesCriteria(status, FilterCriteria{MinDuration: 30}, now))
	assert.True(t, MatchesCriteria(status, FilterCriteria{MinDuration: 45}, now))
	assert.False(t, MatchesCriteria(status, FilterCriteria{MinDuration: 60}, now))
}

func TestMatchesCriteriaFreeUntil(t *testing.T) {
	now := tod(t, "14:00")
	status := availableStatus(t, 45)

	target := tod(t, "14:30")
	assert.True(t, MatchesCriteria(status, FilterCriteria{FreeUntil: &target}, now))

	target = tod(t, "15:00")
	assert.False(t, MatchesCriteria(status, FilterCriteria{FreeUntil: &target}, now))

	// A target already behind the reference instant never matches.
	target = tod(t, "13:00")
	assert.False(t, MatchesCriteria(status, FilterCriteria{FreeUntil: &target}, now))
}

func TestMatchesCriteriaConjunction(t *testing.T) {
	now := tod(t, "14:00")
	status := availableStatus(t, 45)
	until := tod(t, "14:30")

	assert.True(t, MatchesCriteria(status, FilterCriteria{MinDuration: 30, FreeUntil: &until}, now))
	assert.False(t, MatchesCriteria(status, FilterCriteria{MinDuration: 60, FreeUntil: &until}, now))
}
