package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-midea/postdir/internal/directory"
	"github.com/anonto42/nano-midea/postdir/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// PostHandler serves read-only lookups against the post directory
type PostHandler struct {
	directory *directory.Directory
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(dir *directory.Directory) *PostHandler {
	return &PostHandler{directory: dir}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/users/:id/post", h.GetUserPost)
}

// GetPosts returns every post in directory order
func (h *PostHandler) GetPosts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.directory.Posts())
}

// GetPost retrieves a post by its ID
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	record, ok := h.directory.GetPostByPostID(postID)
	if !ok {
		metrics.PostLookupsTotal.WithLabelValues("post", "not_found").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	metrics.PostLookupsTotal.WithLabelValues("post", "found").Inc()
	return c.JSON(http.StatusOK, record)
}

// GetUserPost retrieves the first post authored by a user
func (h *PostHandler) GetUserPost(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	record, ok := h.directory.GetPostByUserID(userID)
	if !ok {
		metrics.PostLookupsTotal.WithLabelValues("user", "not_found").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	metrics.PostLookupsTotal.WithLabelValues("user", "found").Inc()
	return c.JSON(http.StatusOK, record)
}
