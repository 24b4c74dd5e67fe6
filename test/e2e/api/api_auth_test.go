package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSignupSigninMeFlow walks the happy path: register, exchange
// credentials for a token, fetch the current account.
func TestSignupSigninMeFlow(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	created := signup(t, baseURL, "alice@example.com")
	token := signin(t, baseURL, "alice@example.com")

	var me map[string]any
	resp := doJSON(t, http.MethodGet, baseURL+"/auth/me", token, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created["id"], me["id"])
	require.Equal(t, "alice@example.com", me["email"])
}

// TestSignupDuplicateEmailConflicts verifies the second registration with
// the same email answers 409, case-insensitively.
func TestSignupDuplicateEmailConflicts(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	signup(t, baseURL, "alice@example.com")

	var body map[string]any
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/signup", "",
		map[string]string{"email": "ALICE@example.com", "password": testPassword}, &body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assertErrorBody(t, resp, body, "conflict")
}

// TestSignupWeakPasswordRejected verifies the password policy is enforced
// with a 422 and a descriptive message.
func TestSignupWeakPasswordRejected(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	for _, password := range []string{"short", "alllowercase1!", "ALLUPPERCASE1!", "NoDigits!", "NoSymbols1"} {
		var body map[string]any
		resp := doJSON(t, http.MethodPost, baseURL+"/auth/signup", "",
			map[string]string{"email": "weak@example.com", "password": password}, &body)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "password %q", password)
		assertErrorBody(t, resp, body, "validation_failed")
	}
}

// TestSigninWrongCredentialsUnauthorized verifies both an unknown email and
// a wrong password answer an identical 401.
func TestSigninWrongCredentialsUnauthorized(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	signup(t, baseURL, "alice@example.com")

	var wrongPassword map[string]any
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/signin", "",
		map[string]string{"email": "alice@example.com", "password": "Wr0ng$password"}, &wrongPassword)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var unknownEmail map[string]any
	resp = doJSON(t, http.MethodPost, baseURL+"/auth/signin", "",
		map[string]string{"email": "nobody@example.com", "password": "Wr0ng$password"}, &unknownEmail)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Same body for both so account existence never leaks.
	require.Equal(t, wrongPassword["error"], unknownEmail["error"])
	require.Equal(t, wrongPassword["error_description"], unknownEmail["error_description"])
}

// TestMeRequiresToken verifies protected endpoints reject anonymous and
// garbage credentials with a bearer challenge.
func TestMeRequiresToken(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	resp := doJSON(t, http.MethodGet, baseURL+"/auth/me", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")

	resp = doJSON(t, http.MethodGet, baseURL+"/auth/me", "not-a-token", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestSignoutRevokesToken verifies a signed-out token stops working
// immediately even though it has not expired.
func TestSignoutRevokesToken(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	token := signupAndSignin(t, baseURL, "alice@example.com")

	resp := doJSON(t, http.MethodGet, baseURL+"/auth/me", token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, baseURL+"/auth/signout", token, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, baseURL+"/auth/me", token, nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A fresh signin works again.
	fresh := signin(t, baseURL, "alice@example.com")
	resp = doJSON(t, http.MethodGet, baseURL+"/auth/me", fresh, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestBruteForceLockout verifies repeated failed signins from one source
// address trip the guard with 429 and a Retry-After header, without
// affecting callers on other addresses.
func TestBruteForceLockout(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	signup(t, baseURL, "victim@example.com")

	// Failures count against the source address no matter which email is
	// guessed.
	attacker := "203.0.113.99"
	for i := range 5 {
		resp := doJSONFrom(t, http.MethodPost, baseURL+"/auth/signin", "", attacker,
			map[string]string{"email": fmt.Sprintf("guess%d@example.com", i), "password": "Wr0ng$password"}, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	// The attacker's address is locked out now, even with the right
	// password for a real account.
	var body map[string]any
	resp := doJSONFrom(t, http.MethodPost, baseURL+"/auth/signin", "", attacker,
		map[string]string{"email": "victim@example.com", "password": testPassword}, &body)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
	assertErrorBody(t, resp, body, "too_many_attempts")

	// The account owner on a different address signs in fine.
	resp = doJSONFrom(t, http.MethodPost, baseURL+"/auth/signin", "", "198.51.100.7",
		map[string]string{"email": "victim@example.com", "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
