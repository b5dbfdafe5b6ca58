package specialcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"haumankind@chapsmail.com", true},
		{"HAUMANKIND@CHAPSMAIL.COM", true},
		{"anyone@clowmail.com", true},
		{"Other@ClowMail.Com", true},
		{"haumankind@other.com", false},
		{"user@notclowmail.com", false},
		{"user@clowmail.com.evil.com", false},
		{"clowmail.com", false},
		{"", false},
		{"user@", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Match(tc.email), tc.email)
	}
}

func TestMatchIdentifier(t *testing.T) {
	cases := []struct {
		identifier string
		want       bool
	}{
		{"haumankind", true},
		{"HauManKind", true},
		{"haumankind@chapsmail.com", true},
		{"anyone@clowmail.com", true},
		{"coachraj", false},
		{"haumankindx", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Default.MatchIdentifier(tc.identifier), tc.identifier)
	}
}

func TestEmailForIdentifier(t *testing.T) {
	email, ok := Default.EmailForIdentifier("haumankind")
	assert.True(t, ok)
	assert.Equal(t, "haumankind@chapsmail.com", email)

	email, ok = Default.EmailForIdentifier("Anyone@ClowMail.com")
	assert.True(t, ok)
	assert.Equal(t, "anyone@clowmail.com", email)

	_, ok = Default.EmailForIdentifier("coachraj")
	assert.False(t, ok)

	_, ok = Default.EmailForIdentifier("someone@gmail.com")
	assert.False(t, ok)
}

func TestCustomPolicy(t *testing.T) {
	p := NewPolicy([]string{"pinned@a.com"}, []string{"b.org"})
	assert.True(t, p.Match("pinned@a.com"))
	assert.True(t, p.Match("x@b.org"))
	assert.False(t, p.Match("haumankind@chapsmail.com"))
}
