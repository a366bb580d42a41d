package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackPattern(t *testing.T) {
	tests := []struct {
		redirect string
		want     string
	}{
		{"http://localhost:8085/oauth2callback", "/oauth2callback"},
		{"http://localhost:8085", "/"},
		{"http://localhost:8085/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.redirect, func(t *testing.T) {
			u, err := url.Parse(tt.redirect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, callbackPattern(u))
		})
	}
}
