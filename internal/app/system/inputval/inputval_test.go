package inputval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"director", "director@clubhub.org", true},
		{"plus tag", "treasurer+dues@clubhub.org", true},
		{"country domain", "ana.souza@escola.com.br", true},
		{"local dev host", "director@localhost", true},
		{"padded", "  director@clubhub.org  ", true},

		{"empty", "", false},
		{"blank", "   ", false},
		{"no at", "director.clubhub.org", false},
		{"no domain", "director@", false},
		{"no local", "@clubhub.org", false},
		{"two ats", "a@b@clubhub.org", false},
		{"leading dot", ".ana@clubhub.org", false},
		{"trailing dot", "ana.@clubhub.org", false},
		{"doubled dot", "ana..souza@clubhub.org", false},
		{"domain leading dot", "ana@.clubhub.org", false},
		{"domain doubled dot", "ana@clubhub..org", false},
		{"display name", "Club Director <director@clubhub.org>", false},
		{"inner space", "club director@clubhub.org", false},
		{"list separator", "a@clubhub.org, b@clubhub.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email), "IsValidEmail(%q)", tt.email)
		})
	}
}

func TestValidate_GuardianEmail(t *testing.T) {
	type guardian struct {
		Email string `validate:"omitempty,email" label:"Guardian email"`
	}

	assert.False(t, Validate(guardian{}).HasErrors(), "empty email is optional")
	assert.False(t, Validate(guardian{Email: "mae@clubhub.org"}).HasErrors())

	res := Validate(guardian{Email: "Mae <mae@clubhub.org>"})
	if assert.True(t, res.HasErrors()) {
		assert.Equal(t, "Guardian email", res.Errors[0].Field)
		assert.Equal(t, "A valid email address is required.", res.First())
	}
}
