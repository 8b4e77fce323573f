package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Peter Aronov", NormalizeName("   Peter Aronov  "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "myemail@mead.io", NormalizeEmail("MYEMAIL@MEAD.IO   "))
	assert.Equal(t, "ann@x.com", NormalizeEmail("ann@x.com"))
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid name", input: "Andrew", wantErr: false},
		{name: "empty name", input: "", wantErr: true},
		{name: "too long", input: strings.Repeat("a", MaxNameLen+1), wantErr: true},
		{name: "max length", input: strings.Repeat("a", MaxNameLen), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid email", input: "ann@x.com", wantErr: false},
		{name: "subdomain", input: "ann@mail.example.co.uk", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "no at sign", input: "annx.com", wantErr: true},
		{name: "no domain dot", input: "ann@localhost", wantErr: true},
		{name: "embedded space", input: "an n@x.com", wantErr: true},
		{name: "two at signs", input: "ann@@x.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid password", input: "secret12", wantErr: false},
		{name: "exactly min length", input: "1234567", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: "123456", wantErr: true},
		{name: "contains password", input: "mypassword1", wantErr: true},
		{name: "contains password uppercased", input: "myPASSword1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAge(t *testing.T) {
	assert.NoError(t, ValidateAge(0))
	assert.NoError(t, ValidateAge(30))
	assert.Error(t, ValidateAge(-1))
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription("buy milk"))
	assert.Error(t, ValidateDescription(""))
	assert.Error(t, ValidateDescription("   "))
}
