package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidPasswordBoundaries(t *testing.T) {
	cases := map[string]bool{
		"Abc123":                true,
		"abc123":                false, // no uppercase
		"ABC123":                false, // no lowercase
		"Abcdef":                false, // no digit
		"Abc12":                 false, // 5 chars
		"Abc123Abc123Abc123Ab":  true,  // 20 chars
		"Abc123Abc123Abc123Abc": false, // 21 chars
		"Passw0rd":              true,
	}
	for pwd, want := range cases {
		require.Equal(t, want, ValidPassword(pwd), pwd)
	}
}

func TestValidEmail(t *testing.T) {
	require.True(t, ValidEmail("jane@ex.com"))
	require.True(t, ValidEmail("jane.doe-x@mail.ex.co"))
	require.False(t, ValidEmail("jane"))
	require.False(t, ValidEmail("jane@ex"))
	require.False(t, ValidEmail("jane@ex.info"))
	require.False(t, ValidEmail(""))
}

func TestValidFullName(t *testing.T) {
	require.True(t, ValidFullName("Jane Doe"))
	require.True(t, ValidFullName("Ann"))
	require.False(t, ValidFullName("Al"))
	require.False(t, ValidFullName("  Al  "))
}

type signupPayload struct {
	FullName string `json:"fullname" validate:"fullname"`
	Email    string `json:"email" validate:"required,signupemail"`
	Password string `json:"password" validate:"required,pwd"`
}

func TestValidatorDetailsUseJSONNames(t *testing.T) {
	err := Validator().Struct(signupPayload{FullName: " Al ", Email: "bad", Password: "abc"})
	require.Error(t, err)

	details := ToDetails(err)
	require.Equal(t, "must be a valid email", details["email"])
	require.Contains(t, details["password"], "6 - 20 characters")
	require.Equal(t, "must be at least 3 letters long", details["fullname"])
}

func TestValidatorAcceptsGoodPayload(t *testing.T) {
	require.NoError(t, Validator().Struct(signupPayload{FullName: "Jane Doe", Email: "jane@ex.com", Password: "Passw0rd"}))
}

func TestVarRules(t *testing.T) {
	v := Validator()
	require.NoError(t, v.Var("Abc123", "pwd"))
	require.Error(t, v.Var("abc123", "pwd"))
	require.NoError(t, v.Var("jane@ex.com", "signupemail"))
	require.Error(t, v.Var("jane@ex.info", "signupemail"))
	require.Error(t, v.Var("  Al ", "fullname"))
}
