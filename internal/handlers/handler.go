package handlers

import (
	"novblog/internal/logger"
	"novblog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Identity resolution runs on every route; gates run per route,
	// strictly after it.
	router.Use(h.sessionMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	router.GET("/", h.index)

	h.registerAuthRoutes(router)
	h.registerProfileRoutes(router)
	h.registerPostRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/register", h.registerForm)
	r.POST("/register", h.register)
	r.GET("/logout", h.requireLogin(), h.logout)
	r.GET("/admin", h.requireCapability(service.CapAdmin), h.admin)
}

func (h *Handler) registerProfileRoutes(r *gin.Engine) {
	login := h.requireLogin()

	r.GET("/profile/:username", login, h.profile)
	r.GET("/edit-profile/:username", login, h.editProfileForm)
	r.POST("/edit-profile/:username", login, h.editProfile)

	// Avatar bytes are public so they can sit in an <img> tag.
	r.GET("/static/avatar/:username", h.avatarFile)
	r.GET("/avatar/:username", login, h.avatarForm)
	r.POST("/avatar/:username", login, h.uploadAvatar)
}

func (h *Handler) registerPostRoutes(r *gin.Engine) {
	editor := h.requireCapability(service.CapManagePosts)

	r.GET("/newpost/:username", editor, h.newPostForm)
	r.POST("/newpost/:username", editor, h.newPost)

	r.GET("/managepost/:username", editor, h.managePosts)
	r.POST("/managepost/:username", editor, h.setPostStatus)
	r.GET("/draft/:username", editor, h.draftPosts)
	r.POST("/draft/:username", editor, h.setPostStatus)

	r.GET("/managepost/delete/:postid", editor, h.deletePost)
	r.DELETE("/managepost/delete/:postid", editor, h.deletePost)
	r.GET("/managepost/edit/:postid", editor, h.editPostForm)
	r.POST("/managepost/edit/:postid", editor, h.editPost)
}
