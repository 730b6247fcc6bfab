package validate_test

import (
	"strings"
	"testing"
	"time"

	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/validate"
)

var now = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func validRegistration() model.RegistrationRequest {
	return model.RegistrationRequest{
		Username:    "filmfan",
		Email:       "filmfan@example.com",
		Password:    "Str0ng!Pass",
		DateOfBirth: "1990-06-15",
	}
}

func TestRegistration(t *testing.T) {
	if errs := validate.Registration(validRegistration(), now); !errs.Ok() {
		t.Fatalf("valid registration rejected: %v", errs)
	}

	cases := []struct {
		name   string
		mutate func(*model.RegistrationRequest)
		field  string
	}{
		{"blank username", func(r *model.RegistrationRequest) { r.Username = "  " }, "username"},
		{"long username", func(r *model.RegistrationRequest) { r.Username = strings.Repeat("a", 101) }, "username"},
		{"blank email", func(r *model.RegistrationRequest) { r.Email = "" }, "email"},
		{"malformed email", func(r *model.RegistrationRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *model.RegistrationRequest) { r.Password = "S1!a" }, "password"},
		{"no uppercase", func(r *model.RegistrationRequest) { r.Password = "weak1!pass" }, "password"},
		{"no special", func(r *model.RegistrationRequest) { r.Password = "Weak1Pass" }, "password"},
		{"weak fragment", func(r *model.RegistrationRequest) { r.Password = "Password1!" }, "password"},
		{"bad date", func(r *model.RegistrationRequest) { r.DateOfBirth = "15/06/1990" }, "dateOfBirth"},
		{"future date", func(r *model.RegistrationRequest) { r.DateOfBirth = "2030-01-01" }, "dateOfBirth"},
		{"under thirteen", func(r *model.RegistrationRequest) { r.DateOfBirth = "2020-01-01" }, "dateOfBirth"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validRegistration()
			c.mutate(&req)
			errs := validate.Registration(req, now)
			if errs.Ok() {
				t.Fatal("expected rejection")
			}
			if _, ok := errs[c.field]; !ok {
				t.Fatalf("expected error on %q, got %v", c.field, errs)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	if errs := validate.Login(model.LoginRequest{UsernameOrEmail: "filmfan", Password: "x"}); !errs.Ok() {
		t.Fatalf("valid login rejected: %v", errs)
	}
	errs := validate.Login(model.LoginRequest{})
	if errs.Ok() {
		t.Fatal("empty login accepted")
	}
	if len(errs) != 2 {
		t.Fatalf("expected errors on both fields, got %v", errs)
	}
}

func validMovie() model.MovieSubmissionRequest {
	return model.MovieSubmissionRequest{
		Name:        "The Long Take",
		Genres:      []string{"Drama"},
		Directors:   []string{"R. Altman"},
		Writers:     []string{"J. Tewkesbury"},
		Cast:        []string{"L. Tomlin"},
		Producers:   []string{"R. Altman"},
		ReleaseYear: 1975,
		AgeRating:   "15",
	}
}

func TestMovieSubmission(t *testing.T) {
	if errs := validate.MovieSubmission(validMovie()); !errs.Ok() {
		t.Fatalf("valid movie rejected: %v", errs)
	}

	cases := []struct {
		name   string
		mutate func(*model.MovieSubmissionRequest)
		field  string
	}{
		{"blank name", func(m *model.MovieSubmissionRequest) { m.Name = " " }, "name"},
		{"script in name", func(m *model.MovieSubmissionRequest) { m.Name = "<script>alert(1)</script>" }, "name"},
		{"no genres", func(m *model.MovieSubmissionRequest) { m.Genres = nil }, "genres"},
		{"long genre", func(m *model.MovieSubmissionRequest) { m.Genres = []string{strings.Repeat("g", 21)} }, "genres"},
		{"blank director", func(m *model.MovieSubmissionRequest) { m.Directors = []string{""} }, "directors"},
		{"no cast", func(m *model.MovieSubmissionRequest) { m.Cast = []string{} }, "cast"},
		{"year too early", func(m *model.MovieSubmissionRequest) { m.ReleaseYear = 1899 }, "releaseYear"},
		{"year too late", func(m *model.MovieSubmissionRequest) { m.ReleaseYear = 2201 }, "releaseYear"},
		{"unknown rating", func(m *model.MovieSubmissionRequest) { m.AgeRating = "R" }, "ageRating"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validMovie()
			c.mutate(&req)
			errs := validate.MovieSubmission(req)
			if _, ok := errs[c.field]; !ok {
				t.Fatalf("expected error on %q, got %v", c.field, errs)
			}
		})
	}
}

func TestReviewSubmission(t *testing.T) {
	rating := 7
	good := model.ReviewSubmissionRequest{Rating: &rating, Description: "A slow burn that earns its runtime."}
	if errs := validate.ReviewSubmission(good); !errs.Ok() {
		t.Fatalf("valid review rejected: %v", errs)
	}

	low, high := -1, 11
	cases := []struct {
		name  string
		req   model.ReviewSubmissionRequest
		field string
	}{
		{"missing rating", model.ReviewSubmissionRequest{Description: "fine"}, "rating"},
		{"rating too low", model.ReviewSubmissionRequest{Rating: &low, Description: "fine"}, "rating"},
		{"rating too high", model.ReviewSubmissionRequest{Rating: &high, Description: "fine"}, "rating"},
		{"blank description", model.ReviewSubmissionRequest{Rating: &rating, Description: "  "}, "description"},
		{"long description", model.ReviewSubmissionRequest{Rating: &rating, Description: strings.Repeat("d", 501)}, "description"},
		{"sql in description", model.ReviewSubmissionRequest{Rating: &rating, Description: "nice; DROP TABLE reviews"}, "description"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			errs := validate.ReviewSubmission(c.req)
			if _, ok := errs[c.field]; !ok {
				t.Fatalf("expected error on %q, got %v", c.field, errs)
			}
		})
	}
}

func TestSafeText(t *testing.T) {
	good := []string{
		"An ordinary film title",
		"A film about a dog and the people who love it",
	}
	for _, s := range good {
		if !validate.SafeText(s) {
			t.Errorf("safe text rejected: %q", s)
		}
	}

	bad := []string{
		"<script>alert('x')</script>",
		"<iframe src=\"https://evil.example\"></iframe>",
		"javascript:alert(1)",
		"onload=steal()",
		"1' ; DROP TABLE movies",
		"x UNION SELECT password FROM users",
		`<<<<>>>>&&&&`,
	}
	for _, s := range bad {
		if validate.SafeText(s) {
			t.Errorf("unsafe text accepted: %q", s)
		}
	}
}
