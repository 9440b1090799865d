package usecase

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuoteToken(t *testing.T) {
	a, err := generateQuoteToken()
	require.NoError(t, err)
	b, err := generateQuoteToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, quoteTokenBytes)
}

func TestHashQuoteToken(t *testing.T) {
	h1, err := hashQuoteToken("token-a", "secret")
	require.NoError(t, err)
	h2, err := hashQuoteToken("token-a", "secret")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := hashQuoteToken("token-b", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	h4, err := hashQuoteToken("token-a", "other-secret")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h4)

	_, err = hashQuoteToken("token-a", "")
	assert.ErrorIs(t, err, errMissingTokenSecret)
}

func TestClampQuoteTTLMinutes(t *testing.T) {
	assert.Equal(t, 15, clampQuoteTTLMinutes(15))
	assert.Equal(t, 180, clampQuoteTTLMinutes(180))
	assert.Equal(t, 30, clampQuoteTTLMinutes(0))
	assert.Equal(t, 30, clampQuoteTTLMinutes(-5))
	assert.Equal(t, 30, clampQuoteTTLMinutes(181))
}
