package authclient

import (
	"encoding/json"
)

// Normalize parses a backend response body into a user and message. The
// backend has produced three shapes over its lifetime and all are still in
// the wild:
//
//	{"success":true,"message":"...","data":{...user...}}   current envelope
//	{"user":{...user...},"message":"..."}                  wrapper
//	{"id":"USR...","email":"..."}                          legacy bare user
//
// Anything else is rejected rather than guessed at.
func Normalize(raw []byte) (*User, string, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, "", newError(CodeAuthUnrecognized, "The server returned an unexpected response.")
	}

	message := stringField(probe, "message")

	if successRaw, ok := probe["success"]; ok {
		var success bool
		if err := json.Unmarshal(successRaw, &success); err != nil {
			return nil, "", newError(CodeAuthUnrecognized, "The server returned an unexpected response.")
		}
		if !success {
			if message == "" {
				message = "The request was rejected."
			}
			return nil, "", newError(CodeAuthRejected, message)
		}
		dataRaw, ok := probe["data"]
		if !ok || string(dataRaw) == "null" {
			// Envelope success with no payload (logout, reset).
			return nil, message, nil
		}
		u, err := decodeUserish(dataRaw)
		if err != nil {
			return nil, "", err
		}
		return u, message, nil
	}

	if userRaw, ok := probe["user"]; ok {
		u, err := decodeUser(userRaw)
		if err != nil {
			return nil, "", err
		}
		return u, message, nil
	}

	if _, hasID := probe["id"]; hasID {
		u, err := decodeUser(raw)
		if err != nil {
			return nil, "", err
		}
		return u, message, nil
	}

	return nil, "", newError(CodeAuthUnrecognized, "The server returned an unexpected response.")
}

// decodeUserish accepts either a bare user object or a {user: ...} wrapper
// inside the envelope's data field.
func decodeUserish(raw json.RawMessage) (*User, error) {
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, newError(CodeAuthUnrecognized, "The server returned an unexpected response.")
	}
	if userRaw, ok := inner["user"]; ok {
		return decodeUser(userRaw)
	}
	return decodeUser(raw)
}

func decodeUser(raw json.RawMessage) (*User, error) {
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, newError(CodeAuthUnrecognized, "The server returned an unexpected response.")
	}
	if u.ID == "" && u.Email == "" && u.Username == "" {
		return nil, newError(CodeAuthUnrecognized, "The server returned an unexpected response.")
	}
	return &u, nil
}

// envelopeMessage pulls the human message out of an error body, if present.
func envelopeMessage(raw []byte) string {
	var probe struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	if probe.Message != "" {
		return probe.Message
	}
	var errStr string
	if json.Unmarshal(probe.Error, &errStr) == nil {
		return errStr
	}
	return ""
}

func stringField(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
