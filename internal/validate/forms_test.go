package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.True(t, Email("user@example.com"))
	assert.True(t, Email("  user@example.com  "))
	assert.True(t, Email("first.last+tag@sub.example.co"))
	assert.False(t, Email(""))
	assert.False(t, Email("not-an-email"))
	assert.False(t, Email("missing@"))
	assert.False(t, Email("@example.com"))
}

func TestPassword(t *testing.T) {
	result := Password("")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Password is required", result.Errors["password"])

	result = Password("abc")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Password must be at least 6 characters long", result.Errors["password"])

	// Long enough but a single character class: the complexity message
	// wins over the length note.
	result = Password("123456")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Password should include a mix of letters, numbers, or special characters", result.Errors["password"])

	result = Password("abcdefgh")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Password should include a mix of letters, numbers, or special characters", result.Errors["password"])

	// 6-7 chars with two classes keeps the softer length message.
	result = Password("abc123")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Password should be at least 8 characters for better security", result.Errors["password"])

	result = Password("MySecurePass1")
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestDisplayName(t *testing.T) {
	result := DisplayName("")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Display name is required", result.Errors["displayName"])

	result = DisplayName("   ")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Display name is required", result.Errors["displayName"])

	result = DisplayName("A")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Display name must be at least 2 characters", result.Errors["displayName"])

	result = DisplayName(strings.Repeat("x", 51))
	assert.False(t, result.IsValid)
	assert.Equal(t, "Display name must be less than 50 characters", result.Errors["displayName"])

	assert.True(t, DisplayName("Jo").IsValid)
	assert.True(t, DisplayName(strings.Repeat("x", 50)).IsValid)
}

func TestLoginFormData(t *testing.T) {
	result := LoginFormData(LoginForm{})
	assert.False(t, result.IsValid)
	assert.Equal(t, "Email is required", result.Errors["email"])
	assert.Equal(t, "Password is required", result.Errors["password"])

	result = LoginFormData(LoginForm{Email: "bad", Password: "x"})
	assert.False(t, result.IsValid)
	assert.Equal(t, "Please enter a valid email address", result.Errors["email"])

	// Login never applies complexity rules to the password.
	result = LoginFormData(LoginForm{Email: "user@example.com", Password: "weak"})
	assert.True(t, result.IsValid)
}

func TestSignupFormData(t *testing.T) {
	result := SignupFormData(SignupForm{
		Email:           "user@example.com",
		Password:        "MySecurePass1",
		ConfirmPassword: "MySecurePass1",
		DisplayName:     "Tester",
	})
	assert.True(t, result.IsValid)

	result = SignupFormData(SignupForm{
		Email:           "user@example.com",
		Password:        "MySecurePass1",
		ConfirmPassword: "Different1",
		DisplayName:     "Tester",
	})
	assert.False(t, result.IsValid)
	assert.Equal(t, "Passwords do not match", result.Errors["confirmPassword"])

	result = SignupFormData(SignupForm{
		Email:       "user@example.com",
		Password:    "MySecurePass1",
		DisplayName: "Tester",
	})
	assert.False(t, result.IsValid)
	assert.Equal(t, "Please confirm your password", result.Errors["confirmPassword"])
}

func TestPasswordResetFormData(t *testing.T) {
	assert.True(t, PasswordResetFormData(PasswordResetForm{Email: "user@example.com"}).IsValid)

	result := PasswordResetFormData(PasswordResetForm{Email: "nope"})
	assert.False(t, result.IsValid)
	assert.Equal(t, "Please enter a valid email address", result.Errors["email"])
}

func TestSanitizeFormData(t *testing.T) {
	original := map[string]any{
		"email": "  user@example.com  ",
		"age":   42,
		"tags":  []string{" raw "},
	}

	sanitized := SanitizeFormData(original)
	assert.Equal(t, "user@example.com", sanitized["email"])
	assert.Equal(t, 42, sanitized["age"])
	assert.Equal(t, []string{" raw "}, sanitized["tags"])

	// The source map is untouched.
	assert.Equal(t, "  user@example.com  ", original["email"])
}
