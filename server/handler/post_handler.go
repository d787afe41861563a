package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity-service/auth/principal"
	apperrors "github.com/skillsenselab/identity-service/errors"
	"github.com/skillsenselab/identity-service/post"
	"github.com/skillsenselab/identity-service/server"
	"github.com/skillsenselab/identity-service/validation"
)

// PostHandler serves the /api/posts routes. All routes sit behind the auth
// gate.
type PostHandler struct {
	posts *post.Service
}

// NewPostHandler creates the posts handler.
func NewPostHandler(posts *post.Service) *PostHandler {
	return &PostHandler{posts: posts}
}

type postRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required,max=10000"`
	Tags    []string `json:"tags" validate:"max=10,dive,max=50"`
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("Invalid request body"))
		return
	}
	if err := validation.Struct(&req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	p := principal.MustFromContext(c.Request.Context())
	created, err := h.posts.Create(c.Request.Context(), p.ID, req.Title, req.Content, req.Tags)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, created)
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	found, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, found)
}

// List handles GET /api/posts with search, tags, limit, and offset query
// parameters. Tags are comma-separated.
func (h *PostHandler) List(c *gin.Context) {
	filter := post.Filter{
		Search: c.Query("search"),
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		server.RespondWithError(c, apperrors.Validation("limit must be a non-negative integer"))
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		server.RespondWithError(c, apperrors.Validation("offset must be a non-negative integer"))
		return
	}

	result, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, result)
}

// Update handles PUT /api/posts/:id. Only the owner may update.
func (h *PostHandler) Update(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.Validation("Invalid request body"))
		return
	}
	if err := validation.Struct(&req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	p := principal.MustFromContext(c.Request.Context())
	updated, err := h.posts.Update(c.Request.Context(), p.ID, c.Param("id"), req.Title, req.Content, req.Tags)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, updated)
}

// Delete handles DELETE /api/posts/:id. Only the owner may delete.
func (h *PostHandler) Delete(c *gin.Context) {
	p := principal.MustFromContext(c.Request.Context())
	if err := h.posts.Delete(c.Request.Context(), p.ID, c.Param("id")); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
