// Package specialcase holds the allow-list of accounts that must bypass
// Firebase entirely. These addresses hit integration problems with the
// Identity Toolkit early on and are pinned to the first-party flow.
package specialcase

import "strings"

// SubstitutePassword is the known-good password the special reset endpoint
// assigns before a retry login.
const SubstitutePassword = "Cricket2025!"

type Policy struct {
	emails  map[string]struct{}
	domains map[string]struct{}
	// local part -> pinned address, so bare usernames pin too.
	localparts map[string]string
}

// Default is the production policy table.
var Default = NewPolicy(
	[]string{"haumankind@chapsmail.com"},
	[]string{"clowmail.com"},
)

func NewPolicy(emails, domains []string) *Policy {
	p := &Policy{
		emails:     make(map[string]struct{}, len(emails)),
		domains:    make(map[string]struct{}, len(domains)),
		localparts: make(map[string]string, len(emails)),
	}
	for _, e := range emails {
		lower := strings.ToLower(e)
		p.emails[lower] = struct{}{}
		if at := strings.Index(lower, "@"); at > 0 {
			p.localparts[lower[:at]] = lower
		}
	}
	for _, d := range domains {
		p.domains[strings.ToLower(d)] = struct{}{}
	}
	return p
}

// Match reports whether email needs the direct (non-Firebase) flow,
// either by exact address or by domain.
func (p *Policy) Match(email string) bool {
	if email == "" {
		return false
	}
	lower := strings.ToLower(email)
	if _, ok := p.emails[lower]; ok {
		return true
	}
	at := strings.LastIndex(lower, "@")
	if at < 0 || at == len(lower)-1 {
		return false
	}
	_, ok := p.domains[lower[at+1:]]
	return ok
}

// MatchIdentifier extends Match to bare usernames: a login identifier
// without an @ pins when it is the local part of a pinned address.
func (p *Policy) MatchIdentifier(identifier string) bool {
	if strings.Contains(identifier, "@") {
		return p.Match(identifier)
	}
	_, ok := p.localparts[strings.ToLower(identifier)]
	return ok
}

// EmailForIdentifier resolves the pinned address behind an identifier, so
// the reset flow knows which account to reset when given a bare username.
func (p *Policy) EmailForIdentifier(identifier string) (string, bool) {
	lower := strings.ToLower(identifier)
	if strings.Contains(lower, "@") {
		if p.Match(lower) {
			return lower, true
		}
		return "", false
	}
	email, ok := p.localparts[lower]
	return email, ok
}

// Match checks email against the default policy.
func Match(email string) bool { return Default.Match(email) }
