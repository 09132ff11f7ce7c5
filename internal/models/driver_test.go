package models_test

import (
	"testing"

	"gate-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// Both the outward write path and the autofill lookup go through the same
// normalization, so a lowercase lookup finds the stored uppercase row.
func TestNormalizeVehicleNumber(t *testing.T) {
	assert.Equal(t, "MH12AB1234", models.NormalizeVehicleNumber("mh12ab1234"))
	assert.Equal(t, "MH12AB1234", models.NormalizeVehicleNumber(" MH12ab1234 "))
	assert.Equal(t, "MH12AB1234", models.NormalizeVehicleNumber("MH12AB1234"))
}
