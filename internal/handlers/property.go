package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/staybnb/webserver/internal/auth"
	"github.com/staybnb/webserver/internal/forms"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/internal/services"
	"github.com/staybnb/webserver/internal/storage"
	"github.com/staybnb/webserver/internal/store"
	"github.com/staybnb/webserver/internal/uploads"
	"github.com/staybnb/webserver/types"
)

const (
	maxMultipartMemory = 32 << 20
	// formOverhead is allowed on top of the image limit for the text fields
	// and multipart framing.
	formOverhead   = 1 << 20
	formFieldImage = "image"
)

// ObjectReader is the read side of storage.Storage.
type ObjectReader interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// PropertyHandler serves the host dashboard, the listing form and stored
// listing images.
type PropertyHandler struct {
	propertyService *services.PropertyService
	userService     *services.UserService
	sessions        *auth.SessionManager
	images          ObjectReader
	views           *Renderer
	maxUploadBytes  int64
}

// NewPropertyHandler constructs a handler with the provided dependencies.
func NewPropertyHandler(
	propertyService *services.PropertyService,
	userService *services.UserService,
	sessions *auth.SessionManager,
	images ObjectReader,
	views *Renderer,
	maxUploadBytes int64,
) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		userService:     userService,
		sessions:        sessions,
		images:          images,
		views:           views,
		maxUploadBytes:  maxUploadBytes,
	}
}

// PropertyRouter registers listing routes on the given router.
func PropertyRouter(r chi.Router, handler *PropertyHandler) {
	r.Group(func(r chi.Router) {
		r.Use(RequireSession(handler.sessions))
		r.Get("/dashboard", handler.Dashboard)
		r.Get("/add_property", handler.AddPropertyForm)
		r.Post("/add_property", handler.AddProperty)
	})
	r.Get("/uploads/{filename}", handler.Image)
}

// Dashboard lists the signed-in host's properties.
func (h *PropertyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	properties, err := h.propertyService.ListByHost(r.Context(), user.ID)
	if err != nil {
		h.views.serverError(w, r, err, "list properties failed")
		return
	}

	h.views.render(w, r, http.StatusOK, pageDashboard, &view{
		Title:      "Dashboard",
		SignedIn:   true,
		User:       &user,
		Properties: properties,
	})
}

func (h *PropertyHandler) AddPropertyForm(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, pageAddProperty, &view{Title: "Add property", SignedIn: true})
}

// AddProperty validates the listing form, stores the image and creates the
// listing owned by the signed-in user.
func (h *PropertyHandler) AddProperty(w http.ResponseWriter, r *http.Request) {
	hostID, ok := userIDFromContext(r.Context())
	if !ok {
		redirect(w, r, "/login")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.formError(w, r, http.StatusRequestEntityTooLarge, forms.FieldErrors{{Field: formFieldImage, Message: "File is too large."}})
			return
		}
		h.formError(w, r, http.StatusBadRequest, forms.FieldErrors{{Field: "form", Message: "Invalid form submission."}})
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	image, err := imageFromRequest(r)
	if err != nil {
		h.views.serverError(w, r, err, "read uploaded image failed")
		return
	}
	filename := ""
	if image != nil {
		if closer, ok := image.Content.(io.Closer); ok {
			defer closer.Close()
		}
		filename = image.Filename
	}
	in, errs := forms.ValidateListing(forms.ListingFromValues(r.PostForm, filename))
	if !errs.OK() {
		h.formError(w, r, http.StatusUnprocessableEntity, errs)
		return
	}

	_, err = h.propertyService.Create(r.Context(), hostID, in, image)
	switch {
	case err == nil:
		redirect(w, r, "/dashboard")
	case errors.Is(err, services.ErrHostNotFound):
		logger.FromRequest(r).Warn().Int("user_id", hostID).Msg("session user no longer exists")
		h.sessions.Clear(w)
		redirect(w, r, "/login")
	case errors.Is(err, uploads.ErrUnsupportedFileType):
		h.formError(w, r, http.StatusUnprocessableEntity, forms.FieldErrors{{Field: formFieldImage, Message: "Images only!"}})
	case errors.Is(err, uploads.ErrFilenameTooLong):
		h.formError(w, r, http.StatusUnprocessableEntity, forms.FieldErrors{{Field: formFieldImage, Message: "File name is too long."}})
	case errors.Is(err, uploads.ErrInvalidFilename):
		h.formError(w, r, http.StatusUnprocessableEntity, forms.FieldErrors{{Field: formFieldImage, Message: "Invalid file name."}})
	case errors.Is(err, uploads.ErrFileTooLarge):
		h.formError(w, r, http.StatusRequestEntityTooLarge, forms.FieldErrors{{Field: formFieldImage, Message: "File is too large."}})
	case errors.Is(err, store.ErrInvalidInput):
		h.formError(w, r, http.StatusUnprocessableEntity, forms.FieldErrors{{Field: "form", Message: "Invalid listing."}})
	default:
		h.views.serverError(w, r, err, "create property failed")
	}
}

// Image streams a stored listing image.
func (h *PropertyHandler) Image(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name == "" || uploads.Sanitize(name) != name || !uploads.Allowed(name) {
		http.NotFound(w, r)
		return
	}

	body, err := h.images.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			http.NotFound(w, r)
			return
		}
		logger.FromRequest(r).Err(err).Str("filename", name).Msg("read image failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension("." + uploads.Extension(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

// currentUser loads the session's user. A session whose user has gone is
// cleared and redirected to /login.
func (h *PropertyHandler) currentUser(w http.ResponseWriter, r *http.Request) (types.User, bool) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		redirect(w, r, "/login")
		return types.User{}, false
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.sessions.Clear(w)
			redirect(w, r, "/login")
			return types.User{}, false
		}
		h.views.serverError(w, r, err, "load user failed")
		return types.User{}, false
	}
	return user, true
}

func (h *PropertyHandler) formError(w http.ResponseWriter, r *http.Request, status int, errs forms.FieldErrors) {
	h.views.render(w, r, status, pageAddProperty, &view{
		Title:    "Add property",
		SignedIn: true,
		Values:   r.PostForm,
		Errors:   errs,
	})
}

// imageFromRequest returns the uploaded image, or nil when the form carried
// no file.
func imageFromRequest(r *http.Request) (*uploads.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[formFieldImage]
	if len(files) == 0 || files[0].Filename == "" {
		return nil, nil
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	return &uploads.File{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, nil
}
