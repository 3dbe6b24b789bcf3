package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"admin@hoperelief.org", true},
		{"lina.haddad@hoperelief.org", true},
		{"admin+intake@hoperelief.org", true},
		{"clerk@mail.moh.gov.example", true},
		{"user123@sila.co.uk", true},
		{"a@b.co", true},
		{"user@localhost", true},   // RFC 5322 allows single-label domains
		{"admin@mailserver", true}, // useful for dev/test environments

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},

		// Invalid emails - missing parts
		{"admin", false},
		{"admin@", false},
		{"@hoperelief.org", false},

		// Invalid emails - bad format (previously allowed by weak regex)
		{".admin@hoperelief.org", false},       // leading dot in local
		{"admin.@hoperelief.org", false},       // trailing dot in local
		{"lina..haddad@hoperelief.org", false}, // consecutive dots
		{"admin@.hoperelief.org", false},       // leading dot in domain
		{"admin@hoperelief..org", false},       // consecutive dots in domain

		// Invalid emails - display name format (should be rejected)
		{"Lina Haddad <lina@hoperelief.org>", false},

		// Invalid emails - other malformed
		{"lina haddad@hoperelief.org", false}, // space in local
		{"admin@ hoperelief.org", false},      // space after @
		{"admin@hope relief.org", false},      // space in domain
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
