package handler_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/collapsinghierarchy/filmgate/handler"
	"github.com/collapsinghierarchy/filmgate/model"
	"github.com/collapsinghierarchy/filmgate/security"
	"github.com/collapsinghierarchy/filmgate/service"
	"github.com/collapsinghierarchy/filmgate/store/memory"
	"github.com/collapsinghierarchy/filmgate/token"
)

type fixture struct {
	srv      *handler.Server
	store    *memory.Store
	accounts *service.Account
	movies   *service.Movies
	sessions *token.SessionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	sessions := token.NewSessionService(priv, &priv.PublicKey, log)

	st := memory.NewStore()
	accounts := service.NewAccount(st, log)
	movies := service.NewMovies(st, log)
	reviews := service.NewReviews(st, movies, log)

	return &fixture{
		srv:      handler.New(accounts, movies, reviews, sessions, log),
		store:    st,
		accounts: accounts,
		movies:   movies,
		sessions: sessions,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()
	var resp model.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func validRegistration() model.RegistrationRequest {
	return model.RegistrationRequest{
		Username:    "filmfan",
		Email:       "filmfan@example.com",
		Password:    "Str0ng!Pass",
		DateOfBirth: "1990-06-15",
	}
}

func TestSignup(t *testing.T) {
	fx := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", jsonBody(t, validRegistration()))
	rec := httptest.NewRecorder()
	fx.srv.Signup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := envelope(t, rec)
	require.True(t, resp.Success)
	require.Nil(t, resp.Error)

	// The envelope data is a usable session token.
	tok, ok := resp.Data.(string)
	require.True(t, ok, "data should be the session token")
	userID, err := fx.sessions.Verify(tok)
	require.NoError(t, err)

	u, err := fx.accounts.UserByID(t.Context(), userID)
	require.NoError(t, err)
	require.Equal(t, "filmfan", u.Username)
}

func TestSignupValidationFailure(t *testing.T) {
	fx := newFixture(t)

	reg := validRegistration()
	reg.Password = "weak"
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", jsonBody(t, reg))
	rec := httptest.NewRecorder()
	fx.srv.Signup(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := envelope(t, rec)
	require.False(t, resp.Success)
	require.EqualValues(t, 1001, resp.Error.Code)
}

func TestSignupDuplicate(t *testing.T) {
	fx := newFixture(t)

	rec := httptest.NewRecorder()
	fx.srv.Signup(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/signup", jsonBody(t, validRegistration())))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	fx.srv.Signup(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/signup", jsonBody(t, validRegistration())))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, 1002, envelope(t, rec).Error.Code)
}

func TestSignupMalformedBody(t *testing.T) {
	fx := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	fx.srv.Signup(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, 2002, envelope(t, rec).Error.Code)
}

func TestLogin(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.accounts.Register(t.Context(), "filmfan", "filmfan@example.com", "Str0ng!Pass",
		time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	login := func(q, pw string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		body := jsonBody(t, model.LoginRequest{UsernameOrEmail: q, Password: pw})
		fx.srv.Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", body))
		return rec
	}

	rec := login("filmfan", "Str0ng!Pass")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := envelope(t, rec)
	require.True(t, resp.Success)
	_, err = fx.sessions.Verify(resp.Data.(string))
	require.NoError(t, err)

	rec = login("filmfan", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.EqualValues(t, 1005, envelope(t, rec).Error.Code)

	rec = login("", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, 1004, envelope(t, rec).Error.Code)
}

func TestLoginRejectedAccount(t *testing.T) {
	fx := newFixture(t)
	u, err := fx.accounts.Register(t.Context(), "filmfan", "filmfan@example.com", "Str0ng!Pass",
		time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	fx.store.SetRejected(u.ID, true)

	rec := httptest.NewRecorder()
	body := jsonBody(t, model.LoginRequest{UsernameOrEmail: "filmfan", Password: "Str0ng!Pass"})
	fx.srv.Login(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", body))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.EqualValues(t, 1005, envelope(t, rec).Error.Code)
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

func TestSubmitAndListMovies(t *testing.T) {
	fx := newFixture(t)

	rec := httptest.NewRecorder()
	fx.srv.SubmitMovie(rec, httptest.NewRequest(http.MethodPost, "/v1/movies/submit", jsonBody(t, validMovie())))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	fx.srv.ListMovies(rec, httptest.NewRequest(http.MethodGet, "/v1/movies", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// The listing is a raw array, not an envelope.
	var movies []model.MovieWithRating
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&movies))
	require.Len(t, movies, 1)
	require.Equal(t, "The Long Take", movies[0].Name)
	require.Nil(t, movies[0].AverageRating)
}

func TestListMoviesEmpty(t *testing.T) {
	fx := newFixture(t)

	rec := httptest.NewRecorder()
	fx.srv.ListMovies(rec, httptest.NewRequest(http.MethodGet, "/v1/movies", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestSubmitMovieValidationFailure(t *testing.T) {
	fx := newFixture(t)

	movie := validMovie()
	movie.AgeRating = "R"
	rec := httptest.NewRecorder()
	fx.srv.SubmitMovie(rec, httptest.NewRequest(http.MethodPost, "/v1/movies/submit", jsonBody(t, movie)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, 2001, envelope(t, rec).Error.Code)
}

// reviewRequest builds a review submission carrying principal as the
// resolved identity, the way the chain would hand it over.
func reviewRequest(t *testing.T, movieID string, principal security.Principal, body any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/movies/"+movieID+"/review/submit", jsonBody(t, body))
	req.SetPathValue("movieId", movieID)
	return req.WithContext(security.WithPrincipal(req.Context(), principal))
}

func TestSubmitReview(t *testing.T) {
	fx := newFixture(t)
	u, err := fx.accounts.Register(t.Context(), "filmfan", "filmfan@example.com", "Str0ng!Pass",
		time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	movie, err := fx.movies.Submit(t.Context(), validMovie())
	require.NoError(t, err)

	principal := security.Principal{Kind: security.AuthenticatedUser, UserID: u.ID}
	rating := 8
	review := model.ReviewSubmissionRequest{Rating: &rating, Description: "A slow burn that earns its runtime."}

	rec := httptest.NewRecorder()
	fx.srv.SubmitReview(rec, reviewRequest(t, movie.ID.String(), principal, review))
	require.Equal(t, http.StatusOK, rec.Code)

	// Listing it back, raw array, newest first.
	listReq := httptest.NewRequest(http.MethodGet, "/v1/movies/"+movie.ID.String()+"/reviews", nil)
	listReq.SetPathValue("movieId", movie.ID.String())
	rec = httptest.NewRecorder()
	fx.srv.ListReviews(rec, listReq)
	require.Equal(t, http.StatusOK, rec.Code)

	var reviews []model.Review
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reviews))
	require.Len(t, reviews, 1)
	require.Equal(t, u.ID, reviews[0].UserID)
	require.Equal(t, 8, reviews[0].Rating)

	// One review per user per movie.
	rec = httptest.NewRecorder()
	fx.srv.SubmitReview(rec, reviewRequest(t, movie.ID.String(), principal, review))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, 2001, envelope(t, rec).Error.Code)
}

func TestSubmitReviewEdgeCases(t *testing.T) {
	fx := newFixture(t)
	u, err := fx.accounts.Register(t.Context(), "filmfan", "filmfan@example.com", "Str0ng!Pass",
		time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	movie, err := fx.movies.Submit(t.Context(), validMovie())
	require.NoError(t, err)

	principal := security.Principal{Kind: security.AuthenticatedUser, UserID: u.ID}
	rating := 8
	review := model.ReviewSubmissionRequest{Rating: &rating, Description: "Fine."}

	t.Run("anonymous principal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		fx.srv.SubmitReview(rec, reviewRequest(t, movie.ID.String(), security.Principal{}, review))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.EqualValues(t, 1001, envelope(t, rec).Error.Code)
	})

	t.Run("unknown user id in token", func(t *testing.T) {
		ghost := security.Principal{Kind: security.AuthenticatedUser, UserID: uuid.New()}
		rec := httptest.NewRecorder()
		fx.srv.SubmitReview(rec, reviewRequest(t, movie.ID.String(), ghost, review))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected user", func(t *testing.T) {
		fx.store.SetRejected(u.ID, true)
		defer fx.store.SetRejected(u.ID, false)
		rec := httptest.NewRecorder()
		fx.srv.SubmitReview(rec, reviewRequest(t, movie.ID.String(), principal, review))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed movie id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		fx.srv.SubmitReview(rec, reviewRequest(t, "not-a-uuid", principal, review))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.EqualValues(t, 2004, envelope(t, rec).Error.Code)
	})

	t.Run("unknown movie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		fx.srv.SubmitReview(rec, reviewRequest(t, uuid.NewString(), principal, review))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.EqualValues(t, 2004, envelope(t, rec).Error.Code)
	})

	t.Run("missing rating", func(t *testing.T) {
		rec := httptest.NewRecorder()
		bad := model.ReviewSubmissionRequest{Description: "Fine."}
		fx.srv.SubmitReview(rec, reviewRequest(t, movie.ID.String(), principal, bad))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.EqualValues(t, 2001, envelope(t, rec).Error.Code)
	})
}

func TestListReviewsUnknownMovie(t *testing.T) {
	fx := newFixture(t)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies/"+id+"/reviews", nil)
	req.SetPathValue("movieId", id)
	rec := httptest.NewRecorder()
	fx.srv.ListReviews(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}
