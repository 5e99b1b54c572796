package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_RedirectsToLoginWithoutSession(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp := app.postForm(t, c, "/register", registrationValues("ada@example.com", "Ada", "Lovelace"))
	assert.Equal(t, http.StatusSeeOther, resp.status)
	assert.Equal(t, "/login", resp.location)

	require.Equal(t, 1, app.users.count())
	assert.NotEqual(t, "correct-horse", app.users.users[0].PasswordHash)

	resp = app.get(t, c, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.status)
	assert.Equal(t, "/login", resp.location)
}

func TestRegister_ValidationErrorRerendersForm(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	values := registrationValues("ada@example.com", "", "Lovelace")
	values.Set("password", "short")

	resp := app.postForm(t, c, "/register", values)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Contains(t, resp.body, "This field is required.")
	assert.Contains(t, resp.body, "Field must be at least 8 characters long.")
	assert.Contains(t, resp.body, `value="ada@example.com"`)
	assert.NotContains(t, resp.body, `value="short"`)
	assert.Zero(t, app.users.count())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp := app.postForm(t, c, "/register", registrationValues("ada@example.com", "Ada", "Lovelace"))
	require.Equal(t, http.StatusSeeOther, resp.status)

	resp = app.postForm(t, c, "/register", registrationValues("ada@example.com", "Other", "Person"))
	assert.Equal(t, http.StatusConflict, resp.status)
	assert.Contains(t, resp.body, "Email address already registered.")
	assert.Equal(t, 1, app.users.count())
}

func TestLogin_SuccessShowsWelcome(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp := app.postForm(t, c, "/register", registrationValues("ada@example.com", "Ada", "Lovelace"))
	require.Equal(t, http.StatusSeeOther, resp.status)

	resp = app.postForm(t, c, "/login", loginValues("ada@example.com", "correct-horse"))
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, "Welcome, Ada Lovelace!")

	cookies := resp.header.Values("Set-Cookie")
	require.Len(t, cookies, 1)
	assert.Contains(t, cookies[0], "session=")
	assert.Contains(t, cookies[0], "HttpOnly")
	assert.Contains(t, cookies[0], "SameSite=Lax")

	resp = app.get(t, c, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.status)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp := app.postForm(t, c, "/register", registrationValues("ada@example.com", "Ada", "Lovelace"))
	require.Equal(t, http.StatusSeeOther, resp.status)

	tests := []struct {
		name   string
		values url.Values
	}{
		{"wrong password", loginValues("ada@example.com", "wrong-horse")},
		{"unknown email", loginValues("nobody@example.com", "correct-horse")},
		{"missing password", url.Values{"email_address": {"ada@example.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := app.postForm(t, c, "/login", tt.values)
			assert.Equal(t, http.StatusUnauthorized, resp.status)
			assert.Contains(t, resp.body, msgInvalidCredentials)
			assert.Empty(t, resp.header.Values("Set-Cookie"))
		})
	}

	resp = app.get(t, c, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.status)
}

func TestLogout_ClearsSession(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	app.signIn(t, c, "ada@example.com", "Ada", "Lovelace")

	resp := app.postForm(t, c, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.status)
	assert.Equal(t, "/", resp.location)

	resp = app.get(t, c, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.status)
	assert.Equal(t, "/login", resp.location)
}

func TestHome(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp := app.get(t, c, "/")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, "Log in")

	app.signIn(t, c, "ada@example.com", "Ada", "Lovelace")
	resp = app.get(t, c, "/")
	assert.Contains(t, resp.body, "Log out")
}

func TestRegister_PasswordOverBcryptLimitIsFieldError(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	values := registrationValues("ada@example.com", "Ada", "Lovelace")
	values.Set("password", strings.Repeat("€", 25))

	resp := app.postForm(t, c, "/register", values)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.status)
	assert.Contains(t, resp.body, "Field cannot be longer than 72 bytes.")
	assert.Zero(t, app.users.count())

	values.Set("password", strings.Repeat("é", 25))
	resp = app.postForm(t, c, "/register", values)
	assert.Equal(t, http.StatusSeeOther, resp.status, resp.body)
	assert.Equal(t, 1, app.users.count())
}
