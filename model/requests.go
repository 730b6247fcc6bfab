package model

// Request payloads for the JSON endpoints. Validation lives in the
// validate package.

type RegistrationRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type MovieSubmissionRequest struct {
	Name        string   `json:"name"`
	Genres      []string `json:"genres"`
	Directors   []string `json:"directors"`
	Writers     []string `json:"writers"`
	Cast        []string `json:"cast"`
	Producers   []string `json:"producers"`
	ReleaseYear int      `json:"releaseYear"`
	AgeRating   string   `json:"ageRating"`
}

type ReviewSubmissionRequest struct {
	Rating      *int   `json:"rating"`
	Description string `json:"description"`
}
