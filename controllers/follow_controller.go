package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postline/postline/services"
	"github.com/postline/postline/utils"
)

// FollowController exposes the follow/unfollow actions. Success, duplicate
// follow, missing unfollow, and rejected self-follow all end the same way:
// a redirect to the follow feed.
type FollowController struct {
	follows *services.FollowService
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{follows: services.NewFollowService(db)}
}

// Follow subscribes the viewer to the target author's posts.
func (f *FollowController) Follow(ctx *gin.Context) {
	f.mutate(ctx, f.follows.Follow)
}

// Unfollow removes the subscription if present.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	f.mutate(ctx, f.follows.Unfollow)
}

func (f *FollowController) mutate(ctx *gin.Context, op func(uint, string) error) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}
	if err := op(viewerID, ctx.Param("username")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "follow operation failed")
		return
	}
	ctx.Redirect(http.StatusFound, "/follow/")
}
