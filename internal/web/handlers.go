package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/session"
	"github.com/desertthunder/spotrec/internal/shared"
)

const defaultPlaylistName = "Your playlist"

type homeView struct {
	LoggedIn bool
}

type recommendationsView struct {
	Tracks []models.Track
}

type successView struct {
	PlaylistName string
}

func (a *App) home(w http.ResponseWriter, r *http.Request) {
	var view homeView
	if store := session.FromContext(r.Context()); store != nil {
		b, err := store.Get(r.Context())
		view.LoggedIn = err == nil && b != nil
	}
	a.render(w, "home", view)
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.auth.AuthorizeURL(), http.StatusFound)
}

func (a *App) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if code == "" {
		if reason := q.Get("error"); reason != "" {
			a.logger.Warn("authorization denied", "reason", reason)
			writeError(w, http.StatusBadRequest, "Authorization failed: "+reason)
			return
		}
		writeError(w, http.StatusBadRequest, "Authorization code not provided")
		return
	}

	store, ok := a.tokens(w, r)
	if !ok {
		return
	}

	if _, err := a.auth.Exchange(r.Context(), code, store); err != nil {
		a.logger.Error("failed to get access token", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	http.Redirect(w, r, "/profile", http.StatusFound)
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	if store := session.FromContext(r.Context()); store != nil {
		if err := store.Clear(r.Context()); err != nil {
			a.logger.Error("failed to clear session", "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *App) profile(w http.ResponseWriter, r *http.Request, api services.API) {
	summary, err := a.rec.ProfileSummary(r.Context(), api)
	if err != nil {
		a.logger.Error("spotify API error", "error", err)
		writeError(w, http.StatusBadRequest, "Spotify API error: "+err.Error())
		return
	}
	a.render(w, "profile", summary)
}

func (a *App) recommendations(w http.ResponseWriter, r *http.Request, api services.API) {
	tracks, err := a.rec.Recommendations(r.Context(), api)
	if err != nil {
		a.logger.Error("failed to fetch recommendations", "error", err)
		tracks = []models.Track{}
	}
	a.render(w, "recommendations", recommendationsView{Tracks: tracks})
}

func (a *App) createPlaylist(w http.ResponseWriter, r *http.Request, api services.API) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	req := models.PlaylistRequest{
		Name:      r.PostForm.Get("playlist_name"),
		TrackURIs: r.PostForm["track_uris"],
	}

	playlist, err := a.rec.CreatePlaylist(r.Context(), api, req)
	if err != nil {
		var verr *shared.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, shared.ErrAPIRequest):
			a.logger.Error("spotify API error", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create playlist due to an API error.")
		default:
			a.logger.Error("error creating playlist", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create playlist.")
		}
		return
	}

	a.logger.Info("playlist created", "playlist", playlist.ID)
	http.Redirect(w, r, "/playlist_success?"+url.Values{"playlist_name": {req.Name}}.Encode(), http.StatusFound)
}

func (a *App) playlistSuccess(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("playlist_name")
	if name == "" {
		name = defaultPlaylistName
	}
	a.render(w, "playlist_success", successView{PlaylistName: name})
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
