package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamenight/users-service/internal/errs"
	"github.com/gamenight/users-service/internal/model"
	"github.com/gamenight/users-service/internal/token"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type loginRequest struct {
	Code string `json:"code"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// login exchanges an authorization code for a signed session token. A first
// login answers 201, a returning user 200.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body must be JSON with a code field", err)
		return
	}
	if req.Code == "" {
		respondError(c, http.StatusBadRequest, "code must not be empty", nil)
		return
	}

	res, err := s.auth.Login(c.Request.Context(), req.Code, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrRateLimited):
			respondError(c, http.StatusTooManyRequests, "too many login attempts, try again later", nil)
		case errors.Is(err, errs.ErrUnauthorized):
			respondError(c, http.StatusUnauthorized, "identity exchange rejected the code", nil)
		case errors.Is(err, token.ErrMissingPrivateKey):
			s.log.Error("token signing key is not configured")
			respondError(c, http.StatusInternalServerError, "signing key is not configured", nil)
		default:
			s.log.Error("login failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, loginResponse{Token: res.Token, User: res.User})
}

// listUsers returns one page of users ordered by id.
func (s *Server) listUsers(c *gin.Context) {
	pageSize := intQuery(c, "page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := intQuery(c, "page", 1)

	users, err := s.users.List(c.Request.Context(), pageSize, page)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondError(c, http.StatusNotFound, "no users on this page", nil)
			return
		}
		s.log.Error("list users failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "cannot list users", nil)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c *gin.Context) {
	u, err := s.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found", nil)
			return
		}
		s.log.Error("get user failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "cannot load user", nil)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	PhotoURL *string `json:"photo_url"`
}

// requiredProfileFields is the declared required-field table for profile
// updates. Adding a field here is the whole change needed to require it.
var requiredProfileFields = []struct {
	name    string
	present func(r updateUserRequest) bool
}{
	{"name", func(r updateUserRequest) bool { return r.Name != nil }},
	{"location", func(r updateUserRequest) bool { return r.Location != nil }},
	{"photo_url", func(r updateUserRequest) bool { return r.PhotoURL != nil }},
}

func missingProfileFields(r updateUserRequest) []string {
	var missing []string
	for _, f := range requiredProfileFields {
		if !f.present(r) {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// updateUser replaces the profile fields of an existing user. Only the token
// owner (or an admin) may update a profile.
func (s *Server) updateUser(c *gin.Context) {
	targetID := c.Param("id")
	ident, _ := IdentityFromCtx(c.Request.Context())
	if !ident.Allows(targetID) {
		respondError(c, http.StatusForbidden, "token does not grant access to this user", nil)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body must be JSON", err)
		return
	}
	if missing := missingProfileFields(req); len(missing) > 0 {
		respondError(c, http.StatusBadRequest, "missing parameters: "+joinFields(missing), nil)
		return
	}

	u := userFromUpdate(targetID, req)
	if err := s.users.UpdateProfile(c.Request.Context(), u); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found", nil)
			return
		}
		s.log.Error("update user failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "cannot update user", nil)
		return
	}

	updated, err := s.users.Get(c.Request.Context(), targetID)
	if err != nil {
		s.log.Error("reload after update failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "cannot load user", nil)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type favoritesRequest struct {
	FavoriteActivities []int64 `json:"favorite_activities"`
}

// replaceFavorites atomically replaces the user's favorite-activity set.
func (s *Server) replaceFavorites(c *gin.Context) {
	targetID := c.Param("id")
	ident, _ := IdentityFromCtx(c.Request.Context())
	if !ident.Allows(targetID) {
		respondError(c, http.StatusForbidden, "token does not grant access to this user", nil)
		return
	}

	var req favoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body must be JSON", err)
		return
	}
	if req.FavoriteActivities == nil {
		respondError(c, http.StatusBadRequest, "missing parameters: favorite_activities", nil)
		return
	}

	err := s.users.ReplaceFavorites(c.Request.Context(), targetID, req.FavoriteActivities)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found", nil)
			return
		}
		s.log.Error("replace favorites failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "cannot replace favorites", nil)
		return
	}

	updated, err := s.users.Get(c.Request.Context(), targetID)
	if err != nil {
		s.log.Error("reload after favorites update failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "cannot load user", nil)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func userFromUpdate(id string, r updateUserRequest) model.User {
	return model.User{ID: id, Name: r.Name, Location: r.Location, PhotoURL: r.PhotoURL}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}
