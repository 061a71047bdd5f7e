package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/miniblog/backend/models"
)

// PostRequest is the create/update body.
type PostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// PostResponse is the public projection of a post. The owner id stays
// internal.
type PostResponse struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Username   string    `json:"username"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

func newPostResponse(post *models.Post) PostResponse {
	return PostResponse{
		ID:         post.ID,
		Title:      post.Title,
		Username:   post.Username,
		Content:    post.Content,
		CreatedAt:  post.CreatedAt,
		ModifiedAt: post.UpdatedAt,
	}
}

// MessageResponse reports an operation outcome and status code.
type MessageResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// CreatePost handles POST /blog/create
func CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "title and content are required")
		return
	}

	token := verifier.ResolveToken(c.Request)
	post, err := blog.CreateBlog(c.Request.Context(), token, req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPostResponse(post))
}

// ListPosts handles GET /blog/list
func ListPosts(c *gin.Context) {
	posts, err := blog.GetBlogList(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	result := make([]PostResponse, len(posts))
	for i := range posts {
		result[i] = newPostResponse(&posts[i])
	}
	c.JSON(http.StatusOK, result)
}

// GetPost handles GET /blog/:id
func GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := blog.GetBlog(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(post))
}

// UpdatePost handles PUT /blog/update/:id
func UpdatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "title and content are required")
		return
	}

	token := verifier.ResolveToken(c.Request)
	post, err := blog.UpdateBlog(c.Request.Context(), token, id, req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(post))
}

// DeletePost handles DELETE /blog/delete/:id
func DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	token := verifier.ResolveToken(c.Request)
	if err := blog.DeleteBlog(c.Request.Context(), token, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "success", StatusCode: http.StatusOK})
}

// GetPostByTitle handles GET /blog/title/:title
func GetPostByTitle(c *gin.Context) {
	post, err := blog.GetBlogByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(post))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		writeBadRequest(c, "invalid post id")
		return 0, false
	}
	return uint(id), true
}
