package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/staybnb/webserver/internal/auth"
	"github.com/staybnb/webserver/internal/forms"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/internal/services"
)

const msgInvalidCredentials = "Invalid email or password"

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	userService *services.UserService
	sessions    *auth.SessionManager
	views       *Renderer
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, sessions *auth.SessionManager, views *Renderer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		views:       views,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, sessions *auth.SessionManager, views *Renderer) {
	handler := NewAuthHandler(userService, sessions, views)

	r.Get("/register", handler.RegisterForm)
	r.Post("/register", handler.Register)
	r.Get("/login", handler.LoginForm)
	r.Post("/login", handler.Login)
	r.Get("/logout", handler.Logout)
	r.Post("/logout", handler.Logout)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, pageRegister, h.page(r, "Register"))
}

// Register creates an account and sends the visitor to the login page. The
// visitor is not signed in by registering.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.views.render(w, r, http.StatusBadRequest, pageRegister, h.page(r, "Register"))
		return
	}

	in, errs := forms.ValidateRegistration(forms.RegistrationFromValues(r.PostForm))
	if !errs.OK() {
		v := h.page(r, "Register")
		v.Values = r.PostForm
		v.Errors = errs
		h.views.render(w, r, http.StatusUnprocessableEntity, pageRegister, v)
		return
	}

	if _, err := h.userService.Register(r.Context(), in); err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			v := h.page(r, "Register")
			v.Values = r.PostForm
			v.Errors = forms.FieldErrors{{Field: "email_address", Message: "Email address already registered."}}
			h.views.render(w, r, http.StatusConflict, pageRegister, v)
			return
		}
		h.views.serverError(w, r, err, "register user failed")
		return
	}

	redirect(w, r, "/login")
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, pageLogin, h.page(r, "Log in"))
}

// Login starts a session and shows the welcome page. Every failure renders
// the same message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.loginFailed(w, r)
		return
	}

	creds := forms.LoginFromValues(r.PostForm)
	if !creds.Complete() {
		h.loginFailed(w, r)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.loginFailed(w, r)
			return
		}
		h.views.serverError(w, r, err, "authenticate failed")
		return
	}

	if err := h.sessions.Start(w, user.ID); err != nil {
		h.views.serverError(w, r, err, "start session failed")
		return
	}
	logger.FromRequest(r).Info().Int("user_id", user.ID).Msg("user logged in")

	h.views.render(w, r, http.StatusOK, pageWelcome, &view{
		Title:    "Welcome",
		SignedIn: true,
		User:     &user,
	})
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request) {
	v := h.page(r, "Log in")
	v.Flash = msgInvalidCredentials
	v.Values = r.PostForm
	h.views.render(w, r, http.StatusUnauthorized, pageLogin, v)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	redirect(w, r, "/")
}

func (h *AuthHandler) page(r *http.Request, title string) *view {
	_, signedIn := h.sessions.CurrentUserID(r)
	return &view{Title: title, SignedIn: signedIn}
}
