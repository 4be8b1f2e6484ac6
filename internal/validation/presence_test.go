package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/backend/internal/domain"
	"github.com/tripfolio/backend/internal/validation"
)

func TestDetectMissingTransportation_MultipleLocationsNoTransport(t *testing.T) {
	trip := domain.Trip{
		Locations: []domain.Location{{ID: 1}, {ID: 2}},
	}

	issues := validation.DetectMissingTransportation(trip, noDismissals)

	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueNoTransportation, issues[0].Type)
	assert.Equal(t, domain.KeyNoTransportation, issues[0].Key)
	assert.Equal(t, domain.CategoryTransportation, issues[0].Category)
}

func TestDetectMissingTransportation_SingleLocation(t *testing.T) {
	trip := domain.Trip{
		Locations: []domain.Location{{ID: 1}},
	}

	issues := validation.DetectMissingTransportation(trip, noDismissals)

	assert.Empty(t, issues)
}

func TestDetectMissingTransportation_HasTransport(t *testing.T) {
	trip := domain.Trip{
		Locations:       []domain.Location{{ID: 1}, {ID: 2}},
		Transportations: []domain.Transportation{{ID: 10}},
	}

	issues := validation.DetectMissingTransportation(trip, noDismissals)

	assert.Empty(t, issues)
}
