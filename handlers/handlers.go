package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/miniblog/backend/apperr"
	"github.com/miniblog/backend/auth"
	"github.com/miniblog/backend/services"
	"github.com/miniblog/backend/store"
)

var (
	blog     *services.BlogService
	users    *store.UserStore
	verifier *auth.Verifier
)

// Init wires the handlers to their collaborators once at startup.
func Init(db *gorm.DB, v *auth.Verifier) {
	blog = services.NewBlogService(db, v)
	users = store.NewUserStore(db)
	verifier = v
}

// RegisterRoutes mounts the blog and user endpoints on the router.
func RegisterRoutes(router *gin.Engine) {
	blogGroup := router.Group("/blog")
	{
		blogGroup.POST("/create", CreatePost)
		blogGroup.GET("/list", ListPosts)
		blogGroup.GET("/:id", GetPost)
		blogGroup.PUT("/update/:id", UpdatePost)
		blogGroup.DELETE("/delete/:id", DeletePost)
		blogGroup.GET("/title/:title", GetPostByTitle)
	}

	userGroup := router.Group("/user")
	{
		userGroup.POST("/signup", Signup)
		userGroup.POST("/login", Login)
	}
}

// ErrorResponse carries the failure message and its HTTP status code.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// writeError maps a typed failure onto its status; anything outside the
// closed error set is a 500.
func writeError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status(), ErrorResponse{Error: appErr.Message, StatusCode: appErr.Status()})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", StatusCode: http.StatusInternalServerError})
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, StatusCode: http.StatusBadRequest})
}
