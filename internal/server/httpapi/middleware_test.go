package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gamenight/users-service/internal/model"
	"github.com/gamenight/users-service/internal/token"
)

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthorize_HeaderShape(t *testing.T) {
	composer := newTestComposer(t)
	r := newTestRouter(t, &fakeAuth{}, &fakeUserSvc{}, composer)
	bearer := signToken(t, composer, "1", []model.Permission{model.PermFullAccess})

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Token " + bearer,
		"no token":     "Bearer",
		"three parts":  "Bearer " + bearer + " extra",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/users", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := serve(r, req)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthorize_MalformedToken(t *testing.T) {
	r := newTestRouter(t, &fakeAuth{}, &fakeUserSvc{}, newTestComposer(t))

	w := doJSON(t, r, http.MethodGet, "/users", "not-a-jwt", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorize_ForeignSignature(t *testing.T) {
	// Token signed with one key pair, verified against another.
	signer := newTestComposer(t)
	verifier := newTestComposer(t)
	r := newTestRouter(t, &fakeAuth{}, &fakeUserSvc{}, verifier)
	bearer := signToken(t, signer, "1", []model.Permission{model.PermFullAccess})

	w := doJSON(t, r, http.MethodGet, "/users", bearer, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorize_NoVerificationKey(t *testing.T) {
	signer := newTestComposer(t)
	signOnly := token.NewComposer(nil, nil)
	r := newTestRouter(t, &fakeAuth{}, &fakeUserSvc{}, signOnly)
	bearer := signToken(t, signer, "1", []model.Permission{model.PermFullAccess})

	w := doJSON(t, r, http.MethodGet, "/users", bearer, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthorize_ExpiredToken(t *testing.T) {
	composer := newTestComposer(t)
	r := newTestRouter(t, &fakeAuth{}, &fakeUserSvc{byID: map[string]*model.User{"1": {ID: "1"}}}, composer)

	payload := token.NewSessionPayload("1", []model.Permission{model.PermFullAccess})
	payload["exp"] = time.Now().Add(-time.Minute).Unix()
	bearer, err := composer.Sign(payload)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/users", bearer, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "expired")
}

func TestAuthorize_WrongIssuer(t *testing.T) {
	composer := newTestComposer(t)
	r := newTestRouter(t, &fakeAuth{}, &fakeUserSvc{}, composer)

	payload := token.NewSessionPayload("1", []model.Permission{model.PermFullAccess})
	payload["iss"] = "http://somewhere-else.example"
	bearer, err := composer.Sign(payload)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/users", bearer, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorize_InsufficientPermission(t *testing.T) {
	composer := newTestComposer(t)
	users := &fakeUserSvc{byID: map[string]*model.User{"1": {ID: "1"}}}
	r := newTestRouter(t, &fakeAuth{}, users, composer)

	// profile-only may read a single profile but not list everyone
	bearer := signToken(t, composer, "1", []model.Permission{model.PermProfileOnly})

	w := doJSON(t, r, http.MethodGet, "/users", bearer, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/users/1", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorize_ExactPermissionTokens(t *testing.T) {
	composer := newTestComposer(t)
	users := &fakeUserSvc{byID: map[string]*model.User{"1": {ID: "1"}}}
	r := newTestRouter(t, &fakeAuth{}, users, composer)

	// "full-access-readonly" must not satisfy a full-access requirement even
	// though the required name is a prefix of it
	payload := token.NewSessionPayload("1", nil)
	payload["perms"] = "full-access-readonly"
	bearer, err := composer.Sign(payload)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/users", bearer, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthorize_AdminSatisfiesAnyRequirement(t *testing.T) {
	composer := newTestComposer(t)
	users := &fakeUserSvc{byID: map[string]*model.User{"1": {ID: "1"}}}
	r := newTestRouter(t, &fakeAuth{}, users, composer)
	bearer := signToken(t, composer, "9", []model.Permission{model.PermAdmin})

	w := doJSON(t, r, http.MethodGet, "/users", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorize_MissingPermsClaim(t *testing.T) {
	composer := newTestComposer(t)
	r := newTestRouter(t, &fakeAuth{}, &fakeUserSvc{}, composer)

	payload := token.NewSessionPayload("1", nil)
	delete(payload, "perms")
	bearer, err := composer.Sign(payload)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/users", bearer, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}
