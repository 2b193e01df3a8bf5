package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	// Password validation regex patterns
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasNumber  = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[@$!%*?&]`)
	validChars = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)

	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	jsEventRegex = regexp.MustCompile(`on\w+="[^"]*"`)
)

// SanitizeString removes potentially dangerous characters and HTML tags
func SanitizeString(input string) string {
	sanitized := html.EscapeString(input)
	sanitized = htmlTagRegex.ReplaceAllString(sanitized, "")
	sanitized = jsEventRegex.ReplaceAllString(sanitized, "")
	return sanitized
}

// ValidateXSS checks for common XSS attack patterns
func ValidateXSS(input string) (bool, string) {
	xssPatterns := map[string]string{
		`(?i)(<script.*>)`:       "XSS detected: Script tag found",
		`(?i)(javascript:)`:      "XSS detected: JavaScript protocol found",
		`(?i)(onload=)`:          "XSS detected: onload event handler found",
		`(?i)(onerror=)`:         "XSS detected: onerror event handler found",
		`(?i)(onclick=)`:         "XSS detected: onclick event handler found",
		`(?i)(document\.cookie)`: "XSS detected: document.cookie access found",
	}

	for pattern, message := range xssPatterns {
		if matched, _ := regexp.MatchString(pattern, input); matched {
			return false, message
		}
	}
	return true, ""
}

// ValidateEmail checks if the email is valid and safe
func ValidateEmail(email string) (bool, string) {
	if valid, msg := ValidateXSS(email); !valid {
		return false, "Email: " + msg
	}

	email = SanitizeString(strings.TrimSpace(email))

	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements and is safe
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}

	if !hasLower.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}

	if !hasUpper.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}

	if !hasNumber.MatchString(password) {
		return false, "Password must contain at least one number"
	}

	if !hasSpecial.MatchString(password) {
		return false, "Password must contain at least one special character (@$!%*?&)"
	}

	if !validChars.MatchString(password) {
		return false, "Password can only contain letters, numbers, and special characters (@$!%*?&)"
	}

	return true, ""
}

// ValidatePhone checks if the phone number is a plausible E.164 number.
// Phone is optional across the portal.
func ValidatePhone(phone string) (bool, string) {
	if phone == "" {
		return true, ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '+' {
			return r
		}
		return -1
	}, phone)

	if !phoneRegex.MatchString(cleaned) {
		return false, "Invalid phone number format"
	}
	return true, cleaned
}

// ValidateName checks if the name is valid and safe
func ValidateName(name string) (bool, string) {
	if name == "" {
		return true, "" // Name is optional
	}

	if valid, msg := ValidateXSS(name); !valid {
		return false, "Name: " + msg
	}

	name = SanitizeString(strings.TrimSpace(name))
	if len(name) < 2 {
		return false, "Name must be at least 2 characters long"
	}
	if len(name) > 100 {
		return false, "Name must not exceed 100 characters"
	}
	return true, ""
}

// ValidateRequiredText validates a required free-text field with a minimum length.
func ValidateRequiredText(field, value string, minLen int) (bool, string) {
	value = strings.TrimSpace(value)
	if len(value) < minLen {
		return false, fmt.Sprintf("%s must be at least %d characters long", field, minLen)
	}
	if valid, msg := ValidateXSS(value); !valid {
		return false, field + ": " + msg
	}
	return true, ""
}
