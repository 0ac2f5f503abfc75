// Package validate holds the pure form validators the dashboard renders
// inline. Validators never return Go errors; failures come back as a
// field-name-to-message map for the caller to display.
package validate

import (
	"regexp"
	"strings"
)

type FormValidation struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DisplayName     string `json:"displayName"`
}

type PasswordResetForm struct {
	Email string `json:"email"`
}

var emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// Email reports whether the trimmed input matches the address grammar.
func Email(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// Password checks length and complexity. The messages overwrite each other
// on purpose: any password of 6+ characters with fewer than two character
// classes gets the complexity message regardless of length.
func Password(password string) FormValidation {
	errors := map[string]string{}

	if password == "" {
		errors["password"] = "Password is required"
		return FormValidation{IsValid: false, Errors: errors}
	}

	if len(password) < 6 {
		errors["password"] = "Password must be at least 6 characters long"
	} else if len(password) < 8 {
		errors["password"] = "Password should be at least 8 characters for better security"
	}

	classes := 0
	for _, check := range []func(string) bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if check(password) {
			classes++
		}
	}
	if len(password) >= 6 && classes < 2 {
		errors["password"] = "Password should include a mix of letters, numbers, or special characters"
	}

	return FormValidation{IsValid: len(errors) == 0, Errors: errors}
}

func DisplayName(displayName string) FormValidation {
	errors := map[string]string{}
	trimmed := strings.TrimSpace(displayName)

	if trimmed == "" {
		errors["displayName"] = "Display name is required"
	} else if len(trimmed) < 2 {
		errors["displayName"] = "Display name must be at least 2 characters"
	} else if len(trimmed) > 50 {
		errors["displayName"] = "Display name must be less than 50 characters"
	}

	return FormValidation{IsValid: len(errors) == 0, Errors: errors}
}

func LoginFormData(data LoginForm) FormValidation {
	errors := map[string]string{}

	if strings.TrimSpace(data.Email) == "" {
		errors["email"] = "Email is required"
	} else if !Email(data.Email) {
		errors["email"] = "Please enter a valid email address"
	}

	if data.Password == "" {
		errors["password"] = "Password is required"
	}

	return FormValidation{IsValid: len(errors) == 0, Errors: errors}
}

func SignupFormData(data SignupForm) FormValidation {
	errors := map[string]string{}

	if strings.TrimSpace(data.Email) == "" {
		errors["email"] = "Email is required"
	} else if !Email(data.Email) {
		errors["email"] = "Please enter a valid email address"
	}

	if result := DisplayName(data.DisplayName); !result.IsValid {
		for field, message := range result.Errors {
			errors[field] = message
		}
	}

	if result := Password(data.Password); !result.IsValid {
		for field, message := range result.Errors {
			errors[field] = message
		}
	}

	if data.ConfirmPassword == "" {
		errors["confirmPassword"] = "Please confirm your password"
	} else if data.Password != data.ConfirmPassword {
		errors["confirmPassword"] = "Passwords do not match"
	}

	return FormValidation{IsValid: len(errors) == 0, Errors: errors}
}

func PasswordResetFormData(data PasswordResetForm) FormValidation {
	errors := map[string]string{}

	if strings.TrimSpace(data.Email) == "" {
		errors["email"] = "Email is required"
	} else if !Email(data.Email) {
		errors["email"] = "Please enter a valid email address"
	}

	return FormValidation{IsValid: len(errors) == 0, Errors: errors}
}

// SanitizeFormData returns a fresh map with string values trimmed;
// everything else passes through unchanged.
func SanitizeFormData(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for key, value := range data {
		if s, ok := value.(string); ok {
			sanitized[key] = strings.TrimSpace(s)
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func hasUpper(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' })
}

func hasLower(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= 'a' && r <= 'z' })
}

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
}

func hasSpecial(s string) bool {
	return strings.ContainsAny(s, `!@#$%^&*(),.?":{}|<>`)
}
