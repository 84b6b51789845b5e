package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderSignupCode(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	data := NewSignupCodeData(Brand{CompanyName: "Token Flow Team"}, "jane doe", "jane@ex.com", "482913",
		WithTime(now), WithExpiresAt(now.Add(5*time.Minute), now), WithIP("203.0.113.7"), WithUserAgent("curl/8.5"))

	subject, text, html, err := Render(SignupCode, data)
	require.NoError(t, err)
	require.Equal(t, "Sign Up Verification Code", subject)
	require.Contains(t, text, "482913")
	require.Contains(t, text, "Welcome Jane Doe")
	require.Contains(t, text, "5 minutes (02 January 2026, 10:05 UTC)")
	require.Contains(t, text, "Requested on 02 January 2026, 10:00 UTC from 203.0.113.7 using curl/8.5.")
	require.Contains(t, html, "482913")
	require.Contains(t, html, "Token Flow Team")
	require.Contains(t, html, "203.0.113.7")
}

func TestRenderSignupCodeWithoutRequestMeta(t *testing.T) {
	data := NewSignupCodeData(Brand{}, "jane doe", "jane@ex.com", "482913")

	_, text, _, err := Render(SignupCode, data)
	require.NoError(t, err)
	require.Contains(t, text, "It will expire in 5 minutes.")
	require.NotContains(t, text, "Requested on")
}

func TestDefaultFn(t *testing.T) {
	require.Equal(t, "x", defaultFn("x", ""))
	require.Equal(t, "x", defaultFn("x", nil))
	require.Equal(t, "y", defaultFn("x", "y"))
	require.Equal(t, "x", defaultFn("x", 0))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("password_reset", map[string]any{})
	require.Error(t, err)
}
