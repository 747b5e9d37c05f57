package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshalDateOnly(t *testing.T) {
	var req AddExpenseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-01"}`), &req))

	got := req.Date.Ptr()
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *got)
}

func TestDateUnmarshalRFC3339(t *testing.T) {
	var req AddExpenseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-01T15:30:00Z"}`), &req))

	got := req.Date.Ptr()
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC), *got)
}

func TestDateUnmarshalAbsent(t *testing.T) {
	for _, body := range []string{`{}`, `{"date":null}`, `{"date":""}`, `{"date":"  "}`} {
		var req AddExpenseRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Nil(t, req.Date.Ptr(), body)
	}
}

func TestDateUnmarshalInvalid(t *testing.T) {
	var req AddExpenseRequest
	err := json.Unmarshal([]byte(`{"date":"01/02/2024"}`), &req)
	assert.Error(t, err)
}
