package handlers

import (
	"net/http"

	"novblog/internal/service"

	"github.com/gin-gonic/gin"
)

type editProfileRequest struct {
	Username    string `json:"username" form:"username" binding:"required"`
	Email       string `json:"email" form:"email" binding:"required"`
	AboutMe     string `json:"about_me" form:"about_me"`
	NewPassword string `json:"new_password" form:"new_password"`
}

// @Summary      View a profile
// @Tags         profile
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /profile/{username} [get]
func (h *Handler) profile(c *gin.Context) {
	u, err := h.services.Profiles.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeServiceError(c, err, "profile_get_failed", "username", c.Param("username"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// editProfileForm returns the current values the edit form is
// prefilled with. Only the owner sees them.
func (h *Handler) editProfileForm(c *gin.Context) {
	username := c.Param("username")
	p := principalFrom(c)
	if p.User.Username != username {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	u, err := h.services.Profiles.Get(c.Request.Context(), username)
	if err != nil {
		h.writeServiceError(c, err, "profile_get_failed", "username", username)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username": u.Username,
		"email":    u.Email,
		"about_me": u.AboutMe,
	})
}

// @Summary      Edit own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /edit-profile/{username} [post]
func (h *Handler) editProfile(c *gin.Context) {
	var input editProfileRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	p := principalFrom(c)
	u, err := h.services.Profiles.Update(c.Request.Context(), p.User, c.Param("username"), service.EditProfileInput{
		Username:    input.Username,
		Email:       input.Email,
		AboutMe:     input.AboutMe,
		NewPassword: input.NewPassword,
	})
	if err != nil {
		h.writeServiceError(c, err, "profile_update_failed", "username", c.Param("username"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
