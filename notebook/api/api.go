// Package api maps the HTTP surface of the app onto the notebook and
// session layers.
//
// Browser-facing routes answer with redirects and small rendered pages,
// mirroring the original app: auth gaps redirect to /login instead of
// returning an error status. The one JSON route (/api/notes) answers 401
// instead, since a redirect makes no sense for a programmatic client.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/andrebq/jot/internal/logutil"
	"github.com/andrebq/jot/notebook"
	"github.com/andrebq/jot/session"
	"github.com/cespare/xxhash/v2"
	"github.com/julienschmidt/httprouter"
)

// SessionCookie is the name of the cookie carrying the opaque session
// token. It is HttpOnly but not Secure: the app assumes plaintext
// transport on a private network, like the original did.
const SessionCookie = "jot_session"

type (
	handlers struct {
		notes    *notebook.Notebook
		sessions *session.Manager
	}

	notesPayload struct {
		Username string          `json:"username"`
		Notes    []notebook.Note `json:"notes"`
	}
)

// AsHandler builds the full route table.
func AsHandler(notes *notebook.Notebook, sessions *session.Manager) http.Handler {
	h := &handlers{notes: notes, sessions: sessions}
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/", h.home)
	router.HandlerFunc(http.MethodGet, "/signup", h.signupForm)
	router.HandlerFunc(http.MethodPost, "/signup", h.signup)
	router.HandlerFunc(http.MethodGet, "/login", h.loginForm)
	router.HandlerFunc(http.MethodPost, "/login", h.login)
	router.HandlerFunc(http.MethodGet, "/dashboard", h.requireUser(h.dashboard))
	router.HandlerFunc(http.MethodGet, "/profile", h.requireUser(h.profile))
	router.HandlerFunc(http.MethodPost, "/add-note", h.requireUser(h.addNote))
	router.HandlerFunc(http.MethodPost, "/delete-note", h.requireUser(h.deleteNote))
	router.HandlerFunc(http.MethodGet, "/logout", h.logout)
	router.HandlerFunc(http.MethodGet, "/api/notes", h.requireUserJSON(h.apiNotes))
	return router
}

// requireUser resolves the session cookie and hands the username to next.
// Anything short of a live session redirects to the login page without
// touching any state.
func (h *handlers) requireUser(next func(w http.ResponseWriter, r *http.Request, username string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := h.currentUser(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r, username)
	}
}

func (h *handlers) requireUserJSON(next func(w http.ResponseWriter, r *http.Request, username string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := h.currentUser(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "login required"})
			return
		}
		next(w, r, username)
	}
}

func (h *handlers) currentUser(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	username, ok, err := h.sessions.Resolve(r.Context(), cookie.Value)
	if err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("Unable to resolve session token")
		return "", false
	}
	return username, ok
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, homePage, nil)
}

func (h *handlers) signupForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, signupPage, signupData{})
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	err := h.notes.Register(r.Context(), username, password)
	switch {
	case errors.Is(err, notebook.ErrUserExists):
		renderPage(w, r, signupPage, signupData{Message: "User already exists! Try logging in."})
	case err != nil:
		h.fail(w, r, err)
	default:
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func (h *handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, loginPage, loginData{})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	err := h.notes.Authenticate(r.Context(), username, password)
	switch {
	case errors.Is(err, notebook.ErrInvalidCredentials):
		// same message for unknown user and wrong password
		renderPage(w, r, loginPage, loginData{Message: "Invalid username or password"})
	case err != nil:
		h.fail(w, r, err)
	default:
		token, err := h.sessions.Login(r.Context(), username)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(h.sessions.TTL().Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request, username string) {
	renderPage(w, r, dashboardPage, userData{Name: username})
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request, username string) {
	notes, err := h.notes.Notes(r.Context(), username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	renderPage(w, r, profilePage, profileData{Name: username, Notes: notes})
}

func (h *handlers) addNote(w http.ResponseWriter, r *http.Request, username string) {
	err := h.notes.AddNote(r.Context(), username, r.FormValue("note"))
	switch {
	case errors.Is(err, notebook.ErrUserNotFound):
		// session points at a record that is gone from storage
		http.Redirect(w, r, "/login", http.StatusFound)
	case err != nil:
		h.fail(w, r, err)
	default:
		http.Redirect(w, r, "/profile", http.StatusFound)
	}
}

// deleteNote removes a note by its stable id (preferred) or by the
// positional index the original client used. A reference that does not
// resolve redirects to /login, exactly like the original app did.
func (h *handlers) deleteNote(w http.ResponseWriter, r *http.Request, username string) {
	var removed bool
	var err error
	if id := r.FormValue("id"); id != "" {
		removed, err = h.notes.RemoveNoteByID(r.Context(), username, id)
	} else {
		index, convErr := strconv.Atoi(noteIndexField(r))
		if convErr == nil {
			removed, err = h.notes.RemoveNoteAt(r.Context(), username, index)
		}
	}
	switch {
	case errors.Is(err, notebook.ErrUserNotFound):
		http.Redirect(w, r, "/login", http.StatusFound)
	case err != nil:
		h.fail(w, r, err)
	case !removed:
		http.Redirect(w, r, "/login", http.StatusFound)
	default:
		http.Redirect(w, r, "/profile", http.StatusFound)
	}
}

func noteIndexField(r *http.Request) string {
	if v := r.FormValue("index"); v != "" {
		return v
	}
	// field name used by the original forms
	return r.FormValue("noteIndex")
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Logout(r.Context(), cookie.Value); err != nil {
			logger := logutil.GetOrDefault(r.Context())
			logger.Error().Err(err).Msg("Unable to destroy session token")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

// apiNotes is the JSON twin of the profile page. The ETag lets polling
// clients skip re-downloading an unchanged list.
func (h *handlers) apiNotes(w http.ResponseWriter, r *http.Request, username string) {
	notes, err := h.notes.Notes(r.Context(), username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if notes == nil {
		notes = []notebook.Note{}
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(notesPayload{Username: username, Notes: notes}); err != nil {
		h.fail(w, r, err)
		return
	}
	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(buf.Bytes()))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := logutil.GetOrDefault(r.Context())
	logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	http.Error(w, "something went wrong, try again later", http.StatusInternalServerError)
}
