package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-club/meridian/internal/observability"
	"github.com/meridian-club/meridian/internal/shared"
	"github.com/meridian-club/meridian/internal/view"
)

// Handler wires HTTP endpoints for signup, login and logout.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	metrics        *observability.Metrics
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance. Metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		metrics:        metrics,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/signup", h.showSignup)
	r.Post("/signup", h.handleSignup)
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)
}

type signupForm struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=6,max=100"`
}

type loginForm struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=6,max=100"`
}

type authPageData struct {
	Name   string
	Email  string
	Errors map[string]string
}

func (h *Handler) showSignup(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/signup.html", "Sign up", authPageData{}, http.StatusOK)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	// A client-supplied "role" field is ignored outright, new accounts
	// always start as plain members.
	form := signupForm{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	fieldErrors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				fieldErrors[fieldErr.Field()] = signupFieldMessage(fieldErr)
			}
		} else {
			fieldErrors["general"] = "Invalid form submission"
		}
	}
	if len(fieldErrors) > 0 {
		h.render(w, r, "pages/signup.html", "Sign up", authPageData{Name: form.Name, Email: form.Email, Errors: fieldErrors}, http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(r.Context(), RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, shared.ErrDuplicateUser) {
			status = http.StatusConflict
		} else {
			h.logger.Error("signup failed", slog.Any("error", err))
		}
		fieldErrors["general"] = shared.UserSafeMessage(err)
		h.render(w, r, "pages/signup.html", "Sign up", authPageData{Name: form.Name, Email: form.Email, Errors: fieldErrors}, status)
		return
	}

	h.metrics.RecordSignup()
	h.establishSession(r, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/login.html", "Log in", authPageData{}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validator.Struct(form); err != nil {
		// Shape failures get one generic line; echoing the raw
		// validation detail here would leak the schema.
		data := authPageData{Email: form.Email, Errors: map[string]string{"general": "Please enter a valid email and password"}}
		h.render(w, r, "pages/login.html", "Log in", data, http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		h.metrics.RecordLogin("failure")
		status := http.StatusBadRequest
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("login failed", slog.Any("error", err))
			status = http.StatusInternalServerError
		}
		data := authPageData{Email: form.Email, Errors: map[string]string{"general": shared.UserSafeMessage(err)}}
		h.render(w, r, "pages/login.html", "Log in", data, status)
		return
	}

	h.metrics.RecordLogin("success")
	h.establishSession(r, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout destroys the current session and redirects home. A
// logout without an active session is not an error.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// establishSession rotates the session ID and stores the reduced user
// projection. The previous token stops resolving once the response is
// committed.
func (h *Handler) establishSession(r *http.Request, user *User) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing while establishing login")
		return
	}
	h.sessionManager.Regenerate(sess)
	sess.SetUser(user.Projection())
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome, " + user.Name})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data authPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        shared.CurrentUser(r.Context()),
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render auth page", slog.Any("error", err))
	}
}

func signupFieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Field() {
	case "Name":
		if fieldErr.Tag() == "max" {
			return "Name must be at most 100 characters"
		}
		return "Name is required"
	case "Email":
		return "A valid email address is required"
	case "Password":
		switch fieldErr.Tag() {
		case "min":
			return "Password must be at least 6 characters"
		case "max":
			return "Password must be at most 100 characters"
		default:
			return "Password is required"
		}
	default:
		return fieldErr.Field() + " is invalid"
	}
}
