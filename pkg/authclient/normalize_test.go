package authclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEnvelopeSuccess(t *testing.T) {
	raw := []byte(`{"success":true,"message":"Signed in.","data":{"id":"USR00AAAAA","username":"asha","email":"asha@example.com","role":"parent"}}`)
	u, msg, err := Normalize(raw)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "USR00AAAAA", u.ID)
	assert.Equal(t, "Signed in.", msg)
}

func TestNormalizeEnvelopeWithNestedUser(t *testing.T) {
	raw := []byte(`{"success":true,"data":{"user":{"id":"USR00AAAAA","role":"coach"},"access_token":"abc"}}`)
	u, _, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "coach", u.Role)
}

func TestNormalizeEnvelopeFailure(t *testing.T) {
	raw := []byte(`{"success":false,"message":"Invalid credentials."}`)
	u, _, err := Normalize(raw)
	assert.Nil(t, u)
	var authErr *Error
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, CodeAuthRejected, authErr.Code)
	assert.Equal(t, "Invalid credentials.", authErr.Message)
}

func TestNormalizeEnvelopeSuccessWithoutData(t *testing.T) {
	raw := []byte(`{"success":true,"message":"Logged out."}`)
	u, msg, err := Normalize(raw)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, "Logged out.", msg)
}

func TestNormalizeUserWrapper(t *testing.T) {
	raw := []byte(`{"user":{"id":"USR00BBBBB","email":"x@y.com"},"message":"ok"}`)
	u, msg, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "USR00BBBBB", u.ID)
	assert.Equal(t, "ok", msg)
}

func TestNormalizeLegacyBareUser(t *testing.T) {
	raw := []byte(`{"id":"USR00CCCCC","username":"raj","email":"raj@example.com","role":"coach"}`)
	u, _, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "raj", u.Username)
}

func TestNormalizeRejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{
		`[1,2,3]`,
		`"just a string"`,
		`{"unrelated":"shape"}`,
		`{"success":"yes"}`,
		`not json at all`,
	} {
		u, _, err := Normalize([]byte(raw))
		assert.Nil(t, u, raw)
		var authErr *Error
		require.ErrorAs(t, err, &authErr, raw)
		assert.Equal(t, CodeAuthUnrecognized, authErr.Code, raw)
	}
}
