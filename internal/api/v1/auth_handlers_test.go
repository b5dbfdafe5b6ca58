package v1

import (
	"testing"

	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/specialcase"
	"github.com/stretchr/testify/assert"
)

func TestSpecialRetryAllowed(t *testing.T) {
	pinned := &models.User{ID: "USR00AAAAA", Email: "haumankind@chapsmail.com"}
	domain := &models.User{ID: "USR00BBBBB", Email: "anyone@clowmail.com"}
	regular := &models.User{ID: "USR00CCCCC", Email: "asha@gmail.com"}

	assert.True(t, specialRetryAllowed(pinned, specialcase.SubstitutePassword))
	assert.True(t, specialRetryAllowed(domain, specialcase.SubstitutePassword))

	assert.False(t, specialRetryAllowed(pinned, "wrong"))
	assert.False(t, specialRetryAllowed(regular, specialcase.SubstitutePassword))
	assert.False(t, specialRetryAllowed(regular, "wrong"))
}
