package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSetExpiry(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var ts TokenSet
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"ya29","expires_in":3599}`), &ts))
	assert.Equal(t, "ya29", ts.AccessToken)
	assert.Equal(t, issued.Add(3599*time.Second), ts.Expiry(issued))

	ts = TokenSet{ExpiryDate: issued.UnixMilli()}
	assert.True(t, ts.Expiry(time.Now()).Equal(issued))

	assert.True(t, (&TokenSet{}).Expiry(issued).IsZero())
}
