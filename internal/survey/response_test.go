package survey

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse_HasExactlyKnownKeys(t *testing.T) {
	r := NewResponse()
	require.Len(t, r, 13)
	for _, id := range FieldIDs() {
		v, ok := r[id]
		assert.True(t, ok, id)
		assert.Empty(t, v)
	}
	assert.True(t, r.IsEmpty())
}

func TestResponse_CloneNormalizesKeys(t *testing.T) {
	r := Response{FieldVenueSetup: "4", "extra": "x"}
	c := r.Clone()

	assert.Len(t, c, 13)
	assert.Equal(t, "4", c[FieldVenueSetup])
	_, ok := c["extra"]
	assert.False(t, ok)

	c[FieldVenueSetup] = "1"
	assert.Equal(t, "4", r[FieldVenueSetup])
}

func TestRecord_JSONShape(t *testing.T) {
	resp := filledResponse()
	resp[FieldGeneralFeedback] = "loved it"
	rec := Record{
		Response:    resp,
		SubmittedAt: time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("EST", -5*3600)),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var flat map[string]string
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Len(t, flat, 14)
	assert.Equal(t, "2026-01-02T08:04:05.006Z", flat["submitted_at"])
	assert.Equal(t, "loved it", flat[FieldGeneralFeedback])
	assert.Equal(t, "", flat[FieldDelaysComment])

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec.Response, back.Response)
	assert.True(t, rec.SubmittedAt.Equal(back.SubmittedAt))
}

func TestRecord_UnmarshalNullOptional(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"overallEnjoyment":"5","delaysComment":null}`), &rec)
	require.NoError(t, err)
	assert.Equal(t, "5", rec.Response[FieldOverallEnjoyment])
	assert.Equal(t, "", rec.Response[FieldDelaysComment])
	assert.Len(t, rec.Response, 13)
	assert.True(t, rec.SubmittedAt.IsZero())

	err = json.Unmarshal([]byte(`{"submitted_at":"yesterday"}`), &rec)
	assert.Error(t, err)
}
