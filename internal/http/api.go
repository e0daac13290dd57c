package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"kay-social/internal/domain"
	"kay-social/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth         service.AuthService
	posts        service.PostService
	interactions service.InteractionService
	logger       logrus.FieldLogger
}

func NewHandler(auth service.AuthService, posts service.PostService, interactions service.InteractionService, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		auth:         auth,
		posts:        posts,
		interactions: interactions,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.POST("/auth/signup", limitBody(maxImageBodyBytes), h.signup)
		api.POST("/auth/login", limitBody(maxBodyBytes), h.login)
		api.GET("/users/:id/profile-image", h.profileImage)
	}

	authed := api.Group("", h.requireAuth())
	{
		authed.GET("/me", h.me)
		authed.PUT("/me/profile-image", limitBody(maxImageBodyBytes), h.updateProfileImage)
		authed.GET("/me/likes", h.listMine(domain.KindLike))
		authed.GET("/me/bookmarks", h.listMine(domain.KindBookmark))

		authed.POST("/posts", limitBody(maxBodyBytes), h.createPost)
		authed.GET("/posts", h.listPosts)
		authed.GET("/posts/:id", h.getPost)
		authed.DELETE("/posts/:id", h.deletePost)
		authed.GET("/users/:id/posts", h.listUserPosts)

		for _, kind := range []domain.InteractionKind{domain.KindLike, domain.KindBookmark} {
			path := "/posts/:id/" + string(kind) + "s"
			authed.PUT(path, h.addInteraction(kind))
			authed.DELETE(path, h.removeInteraction(kind))
			authed.POST(path+"/toggle", h.toggleInteraction(kind))
			authed.GET(path, h.interactionStatus(kind))
			authed.GET(path+"/users", h.listForPost(kind))
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name, "kind": "InvalidInput"})
		return 0, false
	}
	return id, true
}
