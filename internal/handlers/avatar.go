package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxAvatarBytes caps the accepted upload size; larger files are
// rejected outright rather than stored truncated.
const maxAvatarBytes = 2 << 20 // 2 MB

// @Summary      Avatar image bytes
// @Tags         avatar
// @Produce      image/jpeg
// @Param        username  path  string  true  "Username"
// @Success      200  {string}  binary
// @Failure      404  {object}  map[string]string
// @Router       /static/avatar/{username} [get]
func (h *Handler) avatarFile(c *gin.Context) {
	a, err := h.services.Avatars.Fetch(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.writeServiceError(c, err, "avatar_fetch_failed", "username", c.Param("username"))
		return
	}
	c.Data(http.StatusOK, a.ContentType, a.Data)
}

// avatarForm returns what the upload form needs: the allowed formats.
func (h *Handler) avatarForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": h.services.Avatars.AllowedFormats()})
}

// @Summary      Upload own avatar
// @Tags         avatar
// @Accept       multipart/form-data
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Param        avatar    formData  file    true  "Image file (jpg, jpeg, png, bmp)"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /avatar/{username} [post]
func (h *Handler) uploadAvatar(c *gin.Context) {
	username := c.Param("username")
	p := principalFrom(c)
	if p.User.Username != username {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing avatar file"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "unreadable avatar file", "avatar_open_failed", err)
		return
	}
	defer f.Close()

	// Read one byte past the cap to tell "exactly at the limit" from
	// "over it".
	data, err := io.ReadAll(io.LimitReader(f, maxAvatarBytes+1))
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "unreadable avatar file", "avatar_read_failed", err)
		return
	}
	if len(data) > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file exceeds 2 MB"})
		return
	}

	if err := h.services.Avatars.Upload(c.Request.Context(), username, fileHeader.Filename, data); err != nil {
		h.writeServiceError(c, err, "avatar_upload_failed", "username", username)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "uploaded"})
}
