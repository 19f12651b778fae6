// Package httpapi exposes the users service over HTTP.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamenight/users-service/internal/model"
	"github.com/gamenight/users-service/internal/service"
	"github.com/gamenight/users-service/internal/token"
)

type Server struct {
	auth     service.AuthService
	users    service.UserService
	composer *token.Composer
	log      *zap.Logger
}

// New constructs the HTTP server with its services and token composer.
func New(auth service.AuthService, users service.UserService,
	composer *token.Composer, log *zap.Logger) *Server {
	return &Server{auth: auth, users: users, composer: composer, log: log}
}

// Router assembles middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(s.log), RequestLogger(s.log), AllowAllOrigins())

	r.OPTIONS("/*path", s.preflight)

	r.POST("/users/login", s.login)
	r.GET("/users", s.Authorize(model.PermFullAccess), s.listUsers)
	r.GET("/users/:id", s.Authorize(model.PermProfileOnly, model.PermFullAccess), s.getUser)
	r.PUT("/users/:id", s.Authorize(model.PermFullAccess), s.updateUser)
	r.PUT("/users/:id/activities", s.Authorize(model.PermActivities), s.replaceFavorites)

	return r
}

func (s *Server) preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Headers", "accept, content-type, authorization")
	c.Header("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS,PUT")
	c.Status(http.StatusOK)
}
