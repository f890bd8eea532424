package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Validate(t *testing.T) {
	assert.NoError(t, ID("550e8400-e29b-41d4-a716-446655440000").Validate())

	err := ID("").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = ID("not-a-uuid").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ID format")
}

func TestNewID_GeneratesValidUUID(t *testing.T) {
	assert.NoError(t, NewID().Validate())
	assert.NotEqual(t, NewID(), NewID())
}

func TestTimestamp_JSON(t *testing.T) {
	ts := Timestamp(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T10:00:00Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ts, back)

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &back))
	assert.Error(t, json.Unmarshal([]byte(`42`), &back))
}

func TestTimestamp_UnixMilli(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	assert.Equal(t, Timestamp(now), FromUnixMilli(Timestamp(now).ToUnixMilli()))
}

func TestResponses(t *testing.T) {
	ok := NewSuccessResponse(map[string]int{"total_claims": 2})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)
	assert.Equal(t, 2, ok.Data["total_claims"])

	fail := NewErrorResponse("CLM_001", "no text provided")
	assert.False(t, fail.Success)
	require.NotNil(t, fail.Error)
	assert.Equal(t, "no text provided", fail.Error.Message)

	body, err := json.Marshal(fail)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"data"`)
}

func TestBaseEvent(t *testing.T) {
	e := NewBaseEvent("analysis-1")
	assert.NotEmpty(t, e.EventID())
	assert.Equal(t, "analysis-1", e.AggregateID())
	assert.WithinDuration(t, time.Now(), e.OccurredAt(), time.Minute)

	var _ DomainEvent = e
}

//Personal.AI order the ending
