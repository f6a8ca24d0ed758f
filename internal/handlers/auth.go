package handlers

import (
	"errors"
	"net/http"
	"time"

	"novblog/internal/models"
	"novblog/internal/service"

	"github.com/gin-gonic/gin"
)

const errInvalidCredentials = "invalid username or password"

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Remember bool   `json:"remember" form:"remember"`
}

type registerRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Role     string `json:"role" form:"role"`
}

// bindOrBadRequest binds the request body (JSON or form) into dst and
// writes a 400 JSON on failure. Returns false if the request was
// already handled (aborted), true otherwise.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// writeServiceError maps domain errors onto HTTP statuses; anything
// unrecognized is a 500 with the details kept to the log.
func (h *Handler) writeServiceError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", logKey, err, kv...)
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Landing data
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	p := principalFrom(c)
	resp := gin.H{"authenticated": p.IsAuthenticated()}
	if p.IsAuthenticated() {
		resp["user"] = p.User
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) loginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": principalFrom(c).IsAuthenticated()})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.Sessions.Login(c.Request.Context(), input.Username, input.Password, input.Remember)
	if err != nil {
		// Internal logs may say which part failed; the client never
		// learns whether the user exists.
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidPassword) {
			if h.log != nil {
				h.log.Infow("login_failed", "username", input.Username, "err", err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", "login_failed", err, "username", input.Username)
		return
	}

	h.setSessionCookie(c, res.Session.Token, res.Session.ExpiresAt)
	if res.RememberToken != "" {
		c.SetCookie(rememberCookie, res.RememberToken, int(time.Until(res.Session.ExpiresAt).Seconds()), "/", "", false, true)
	}
	c.JSON(http.StatusOK, gin.H{"user": res.User})
}

// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /logout [get]
func (h *Handler) logout(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	if err := h.services.Sessions.Logout(c.Request.Context(), token); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", "logout_failed", err)
		return
	}
	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (h *Handler) registerForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"roles": []string{models.RoleAdmin, models.RoleEditor, models.RoleReader},
	})
}

// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /register [post]
func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	u, err := h.services.Credentials.Register(c.Request.Context(), service.RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		if h.log != nil {
			h.log.Infow("register_failed", "username", input.Username, "err", err)
		}
		h.writeServiceError(c, err, "register_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// @Summary      Administrative view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /admin [get]
func (h *Handler) admin(c *gin.Context) {
	p := principalFrom(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "user": p.User})
}
