package handlers

import (
	"net/http"
	"strconv"

	"novblog/internal/models"
	"novblog/internal/service"

	"github.com/gin-gonic/gin"
)

// postRequest is the post form body. Tags is comma-separated; Status
// is draft or published.
type postRequest struct {
	Title    string `json:"title" form:"title" binding:"required"`
	Content  string `json:"content" form:"content"`
	Tags     string `json:"tags" form:"tags"`
	Category string `json:"category" form:"category"`
	Status   string `json:"status" form:"status" binding:"required"`
}

type postStatusRequest struct {
	PostID string `json:"post_id" form:"post_id" binding:"required"`
	Status string `json:"status" form:"status" binding:"required"` // draft | published
}

// listPathForStatus is where the UI sends the user after acting on a
// post in the given status.
func listPathForStatus(status, username string) string {
	if status == models.StatusDraft {
		return "/draft/" + username
	}
	return "/managepost/" + username
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// selectionLists loads the distinct tags and categories the post form
// offers for selection.
func (h *Handler) selectionLists(c *gin.Context) (tags, categories []string, ok bool) {
	ctx := c.Request.Context()
	tags, err := h.services.Posts.DistinctTags(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", "distinct_tags_failed", err)
		return nil, nil, false
	}
	categories, err = h.services.Posts.DistinctCategories(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", "distinct_categories_failed", err)
		return nil, nil, false
	}
	return tags, categories, true
}

// newPostForm returns the selection lists the new-post form offers.
func (h *Handler) newPostForm(c *gin.Context) {
	tags, categories, ok := h.selectionLists(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags, "categories": categories})
}

// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        username  path  string  true  "Author username"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /newpost/{username} [post]
func (h *Handler) newPost(c *gin.Context) {
	p := principalFrom(c)
	if p.User.Username != c.Param("username") {
		// A post is always authored by the logged-in editor.
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var input postRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	post, err := h.services.Posts.Create(c.Request.Context(), p.User, service.PostInput{
		Title:    input.Title,
		Content:  input.Content,
		Tags:     input.Tags,
		Category: input.Category,
		Status:   input.Status,
	})
	if err != nil {
		h.writeServiceError(c, err, "post_create_failed", "author", p.User.Username)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"redirect": listPathForStatus(post.Status, p.User.Username),
	})
}

// @Summary      List published posts
// @Tags         posts
// @Produce      json
// @Param        username  path   string  true   "Author username"
// @Param        page      query  int     false  "Page number"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /managepost/{username} [get]
func (h *Handler) managePosts(c *gin.Context) {
	h.listPosts(c, models.StatusPublished)
}

// @Summary      List draft posts
// @Tags         posts
// @Produce      json
// @Param        username  path   string  true   "Author username"
// @Param        page      query  int     false  "Page number"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /draft/{username} [get]
func (h *Handler) draftPosts(c *gin.Context) {
	h.listPosts(c, models.StatusDraft)
}

func (h *Handler) listPosts(c *gin.Context, status string) {
	username := c.Param("username")
	u, err := h.services.Profiles.Get(c.Request.Context(), username)
	if err != nil {
		h.writeServiceError(c, err, "post_list_failed", "username", username)
		return
	}

	page, err := h.services.Posts.ListByAuthorAndStatus(c.Request.Context(), u.ID, status, pageParam(c))
	if err != nil {
		h.writeServiceError(c, err, "post_list_failed", "username", username, "status", status)
		return
	}
	c.JSON(http.StatusOK, page)
}

// setPostStatus handles the publish/unpublish buttons on the listing
// pages: it moves one owned post between draft and published.
func (h *Handler) setPostStatus(c *gin.Context) {
	var input postStatusRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	p := principalFrom(c)
	post, err := h.services.Posts.SetStatus(c.Request.Context(), input.PostID, p.User, input.Status)
	if err != nil {
		h.writeServiceError(c, err, "post_set_status_failed", "post_id", input.PostID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"redirect": listPathForStatus(post.Status, p.User.Username),
	})
}

// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Param        postid  path  string  true  "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /managepost/delete/{postid} [delete]
func (h *Handler) deletePost(c *gin.Context) {
	p := principalFrom(c)
	postID := c.Param("postid")

	// The status must be read before the row is gone; the UI routes
	// its feedback by where the post used to live.
	priorStatus, err := h.services.Posts.Delete(c.Request.Context(), postID, p.User)
	if err != nil {
		h.writeServiceError(c, err, "post_delete_failed", "post_id", postID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "deleted",
		"prior_status": priorStatus,
		"redirect":     listPathForStatus(priorStatus, p.User.Username),
	})
}

// editPostForm returns the post plus the selection lists for prefill.
func (h *Handler) editPostForm(c *gin.Context) {
	p := principalFrom(c)
	post, err := h.services.Posts.Get(c.Request.Context(), c.Param("postid"), p.User)
	if err != nil {
		h.writeServiceError(c, err, "post_get_failed", "post_id", c.Param("postid"))
		return
	}
	tags, categories, ok := h.selectionLists(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "tags": tags, "categories": categories})
}

// @Summary      Edit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        postid  path  string  true  "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /managepost/edit/{postid} [post]
func (h *Handler) editPost(c *gin.Context) {
	var input postRequest
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	p := principalFrom(c)
	post, err := h.services.Posts.Update(c.Request.Context(), c.Param("postid"), p.User, service.PostInput{
		Title:    input.Title,
		Content:  input.Content,
		Tags:     input.Tags,
		Category: input.Category,
		Status:   input.Status,
	})
	if err != nil {
		h.writeServiceError(c, err, "post_update_failed", "post_id", c.Param("postid"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"redirect": listPathForStatus(post.Status, p.User.Username),
	})
}
