// Package validate holds the explicit request validators. Each validator
// returns a field-keyed error map; an empty map means the input is good.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/collapsinghierarchy/filmgate/model"
)

// Errors maps field name to a human-readable problem.
type Errors map[string]string

func (e Errors) Ok() bool { return len(e) == 0 }

func (e Errors) set(field, msg string) { e[field] = msg }

const (
	maxNameLen        = 100
	maxGenreLen       = 20
	maxDescriptionLen = 500
	minReleaseYear    = 1900
	maxReleaseYear    = 2200
	minUserAgeYears   = 13
	minPasswordLen    = 8
	dateLayout        = "2006-01-02"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Patterns that mark free text as hostile: script/markup injection and
// obvious SQL injection attempts.
var (
	unsafeMarkupPattern = regexp.MustCompile(`(?is)(<script[^>]*>.*?</script>)|(<iframe[^>]*>.*?</iframe>)|(javascript:)|(on\w+\s*=)|(<object[^>]*>.*?</object>)|(<embed[^>]*>)|(vbscript:)|(<form[^>]*>)|(<input[^>]*>)|(data:text/html)|(<meta[^>]*>)`)
	unsafeSQLPattern    = regexp.MustCompile(`(?is)(union\s+select)|(insert\s+into)|(delete\s+from)|(update\s+\w+\s+set)|(drop\s+table)|(drop\s+database)|('\s*;)|(--|#)|(/\*.*?\*/)`)
)

var weakPasswordFragments = []string{"password", "123456", "qwerty", "admin"}

const passwordSpecials = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// Registration validates a signup request.
func Registration(r model.RegistrationRequest, now time.Time) Errors {
	errs := Errors{}
	if strings.TrimSpace(r.Username) == "" {
		errs.set("username", "username is required")
	} else if len(r.Username) > maxNameLen {
		errs.set("username", fmt.Sprintf("username must be at most %d characters", maxNameLen))
	}
	switch {
	case strings.TrimSpace(r.Email) == "":
		errs.set("email", "email is required")
	case len(r.Email) > maxNameLen:
		errs.set("email", fmt.Sprintf("email must be at most %d characters", maxNameLen))
	case !emailPattern.MatchString(r.Email):
		errs.set("email", "email is not a valid address")
	}
	if msg := strongPassword(r.Password); msg != "" {
		errs.set("password", msg)
	}
	dob, err := time.Parse(dateLayout, r.DateOfBirth)
	switch {
	case err != nil:
		errs.set("dateOfBirth", "dateOfBirth must be a YYYY-MM-DD date")
	case !dob.Before(now):
		errs.set("dateOfBirth", "dateOfBirth must be in the past")
	case dob.AddDate(minUserAgeYears, 0, 0).After(now):
		errs.set("dateOfBirth", fmt.Sprintf("user must be at least %d years old", minUserAgeYears))
	}
	return errs
}

// Login validates a login request.
func Login(r model.LoginRequest) Errors {
	errs := Errors{}
	if strings.TrimSpace(r.UsernameOrEmail) == "" {
		errs.set("usernameOrEmail", "usernameOrEmail is required")
	}
	if r.Password == "" {
		errs.set("password", "password is required")
	}
	return errs
}

// MovieSubmission validates a film submission.
func MovieSubmission(r model.MovieSubmissionRequest) Errors {
	errs := Errors{}
	switch {
	case strings.TrimSpace(r.Name) == "":
		errs.set("name", "name is required")
	case len(r.Name) > maxNameLen:
		errs.set("name", fmt.Sprintf("name must be at most %d characters", maxNameLen))
	case !SafeText(r.Name):
		errs.set("name", "name contains potentially unsafe content")
	}
	checkNames(errs, "genres", r.Genres, maxGenreLen)
	checkNames(errs, "directors", r.Directors, maxNameLen)
	checkNames(errs, "writers", r.Writers, maxNameLen)
	checkNames(errs, "cast", r.Cast, maxNameLen)
	checkNames(errs, "producers", r.Producers, maxNameLen)
	if r.ReleaseYear < minReleaseYear || r.ReleaseYear > maxReleaseYear {
		errs.set("releaseYear", fmt.Sprintf("releaseYear must be between %d and %d", minReleaseYear, maxReleaseYear))
	}
	if !model.AgeRating(r.AgeRating).Known() {
		errs.set("ageRating", "ageRating is not a recognised certificate")
	}
	return errs
}

// ReviewSubmission validates a review submission.
func ReviewSubmission(r model.ReviewSubmissionRequest) Errors {
	errs := Errors{}
	switch {
	case r.Rating == nil:
		errs.set("rating", "rating is required")
	case *r.Rating < 0 || *r.Rating > 10:
		errs.set("rating", "rating must be between 0 and 10")
	}
	switch {
	case strings.TrimSpace(r.Description) == "":
		errs.set("description", "description is required")
	case len(r.Description) > maxDescriptionLen:
		errs.set("description", fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	case !SafeText(r.Description):
		errs.set("description", "description contains potentially unsafe content")
	}
	return errs
}

// ParseDate parses a YYYY-MM-DD date previously accepted by Registration.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// SafeText reports whether free text is free of markup/SQL injection
// markers and not dominated by special characters.
func SafeText(s string) bool {
	if unsafeMarkupPattern.MatchString(s) || unsafeSQLPattern.MatchString(s) {
		return false
	}
	special := 0
	for _, c := range s {
		if strings.ContainsRune(`<>&"'\`, c) {
			special++
		}
	}
	// More than 10% special characters smells like an injection attempt.
	return special*10 <= len(s)
}

func strongPassword(p string) string {
	if len(p) < minPasswordLen {
		return fmt.Sprintf("password must be at least %d characters long", minPasswordLen)
	}
	var upper, lower, digit, special bool
	for _, c := range p {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return "password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character"
	}
	lowered := strings.ToLower(p)
	for _, frag := range weakPasswordFragments {
		if strings.Contains(lowered, frag) {
			return "password must not contain common weak patterns"
		}
	}
	return ""
}

func checkNames(errs Errors, field string, values []string, maxLen int) {
	if len(values) == 0 {
		errs.set(field, field+" must have at least one entry")
		return
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			errs.set(field, field+" entries must not be blank")
			return
		}
		if len(v) > maxLen {
			errs.set(field, fmt.Sprintf("%s entries must be at most %d characters", field, maxLen))
			return
		}
		if !SafeText(v) {
			errs.set(field, field+" contains potentially unsafe content")
			return
		}
	}
}
