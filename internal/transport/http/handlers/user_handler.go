package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/vedran77/vidtube/internal/config"
	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

const refreshTokenCookie = "refreshToken"

type UserHandler struct {
	userService *service.UserService
	uploads     *Uploader
	cookies     config.AuthConfig
}

func NewUserHandler(userService *service.UserService, uploads *Uploader, cookies config.AuthConfig) *UserHandler {
	return &UserHandler{userService: userService, uploads: uploads, cookies: cookies}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.uploads.parseForm(w, r) {
		return
	}
	defer cleanupForm(r)

	input := service.RegisterInput{
		Fullname: r.FormValue("fullname"),
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if !validate(w, &input) {
		return
	}

	paths, err := h.uploads.spoolAll(r, "avatar", "coverImage")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	defer cleanup(paths...)
	input.AvatarPath, input.CoverImagePath = paths[0], paths[1]

	user, err := h.userService.Register(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, "register", err)
		return
	}

	response.JSON(w, http.StatusCreated, user, "User registered successfully")
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.userService.Login(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	h.setTokenCookies(w, &result.TokenPair)
	response.JSON(w, http.StatusOK, result, "User logged in successfully")
}

// Refresh takes the refresh token from the JSON body, falling back to the
// refreshToken cookie.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.RefreshToken == "" {
		if c, err := r.Cookie(refreshTokenCookie); err == nil {
			input.RefreshToken = c.Value
		}
	}

	pair, err := h.userService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		writeServiceError(w, r, "refresh token", err)
		return
	}

	h.setTokenCookies(w, pair)
	response.JSON(w, http.StatusOK, pair, "Access token refreshed")
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.userService.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, r, "logout", err)
		return
	}

	h.clearTokenCookies(w)
	response.JSON(w, http.StatusOK, struct{}{}, "User logged out")
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.ChangePasswordInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, input); err != nil {
		writeServiceError(w, r, "change password", err)
		return
	}

	response.JSON(w, http.StatusOK, struct{}{}, "Password changed successfully")
}

func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, "current user", err)
		return
	}

	response.JSON(w, http.StatusOK, user, "User fetched successfully")
}

func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.UpdateAccountInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.userService.UpdateAccount(r.Context(), userID, input)
	if err != nil {
		writeServiceError(w, r, "update account", err)
		return
	}

	response.JSON(w, http.StatusOK, user, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	path, ok := h.spoolOne(w, r, "avatar")
	if !ok {
		return
	}
	defer cleanup(path)
	defer cleanupForm(r)

	user, err := h.userService.UpdateAvatar(r.Context(), userID, path)
	if err != nil {
		writeServiceError(w, r, "update avatar", err)
		return
	}

	response.JSON(w, http.StatusOK, user, "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	path, ok := h.spoolOne(w, r, "coverImage")
	if !ok {
		return
	}
	defer cleanup(path)
	defer cleanupForm(r)

	user, err := h.userService.UpdateCoverImage(r.Context(), userID, path)
	if err != nil {
		writeServiceError(w, r, "update cover image", err)
		return
	}

	response.JSON(w, http.StatusOK, user, "Cover image updated successfully")
}

func (h *UserHandler) DeleteCoverImage(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.DeleteCoverImage(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, "delete cover image", err)
		return
	}

	response.JSON(w, http.StatusOK, user, "Cover image removed successfully")
}

func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())

	profile, err := h.userService.ChannelProfile(r.Context(), viewerID, chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, r, "channel profile", err)
		return
	}

	response.JSON(w, http.StatusOK, profile, "User channel fetched successfully")
}

func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.userService.WatchHistory(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, "watch history", err)
		return
	}

	if history == nil {
		history = []domain.VideoWithOwner{}
	}
	response.JSON(w, http.StatusOK, history, "Watch history fetched successfully")
}

func (h *UserHandler) spoolOne(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	if !h.uploads.parseForm(w, r) {
		return "", false
	}
	path, err := h.uploads.spool(r, field)
	if err != nil {
		cleanupForm(r)
		response.Error(w, http.StatusBadRequest, "Invalid file upload")
		return "", false
	}
	return path, true
}

func (h *UserHandler) setTokenCookies(w http.ResponseWriter, pair *service.TokenPair) {
	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, pair.AccessToken, h.cookies.AccessTTL))
	http.SetCookie(w, h.cookie(refreshTokenCookie, pair.RefreshToken, h.cookies.RefreshTTL))
}

func (h *UserHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		c := h.cookie(name, "", 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h *UserHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
