package handlers

import (
	"net/http"
	"time"

	"novblog/internal/models"
	"novblog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie  = "novblog_session"
	rememberCookie = "novblog_remember"

	principalKey = "principal"
)

// sessionMiddleware resolves the request's principal from the session
// cookie (falling back to the remember token), stamps last_seen, and
// stores the principal in the gin context. It never rejects a request
// itself; the gates below do that.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	rememberToken, _ := c.Cookie(rememberCookie)

	res, err := h.services.Sessions.Resolve(c.Request.Context(), token, rememberToken)
	if err != nil && h.log != nil {
		h.log.Errorw("session_resolve_failed", "err", err)
	}

	if res.Renewed && res.Session != nil {
		h.setSessionCookie(c, res.Session.Token, res.Session.ExpiresAt)
	}

	if res.Principal.IsAuthenticated() {
		// Best-effort activity ping; never fails the request.
		if err := h.services.Sessions.Ping(c.Request.Context(), res.Principal.User.ID); err != nil && h.log != nil {
			h.log.Warnw("last_seen_ping_failed", "err", err, "user", res.Principal.User.Username)
		}
	}

	c.Set(principalKey, res.Principal)
	c.Next()
}

// requireLogin gates a route on any authenticated principal.
func (h *Handler) requireLogin() gin.HandlerFunc {
	return h.requireCapability(service.CapViewProfile)
}

// requireCapability gates a route on the permission evaluator. A Deny
// aborts with 401.
func (h *Handler) requireCapability(cap service.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principalFrom(c)
		if d := h.services.Permissions.Authorize(p, cap); !d.Allowed {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": d.Reason})
			return
		}
		c.Next()
	}
}

// principalFrom reads the principal stored by sessionMiddleware.
func principalFrom(c *gin.Context) models.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return models.Anonymous()
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expires time.Time) {
	c.SetCookie(sessionCookie, token, int(time.Until(expires).Seconds()), "/", "", false, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.SetCookie(rememberCookie, "", -1, "/", "", false, true)
}
