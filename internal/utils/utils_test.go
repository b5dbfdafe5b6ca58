package utils

import (
	"encoding/json"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUserID(t *testing.T) {
	pattern := regexp.MustCompile(`^USR00[0-9A-Z]{5}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := GenerateUserID()
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 45, "ids should be effectively unique")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Cricket2025!")
	require.NoError(t, err)
	assert.NotEqual(t, "Cricket2025!", hash)

	ok, err := ComparePasswordAndHash("Cricket2025!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePasswordAndHash("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteJSONResponseEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONResponse(rec, 200, true, "done", map[string]string{"k": "v"}, nil)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "done", env["message"])
	assert.Equal(t, map[string]interface{}{"k": "v"}, env["data"])
}

func TestRandomToken(t *testing.T) {
	a := RandomToken()
	b := RandomToken()
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
