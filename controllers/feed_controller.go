package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postline/postline/cache"
	"github.com/postline/postline/config"
	"github.com/postline/postline/middleware"
	"github.com/postline/postline/services"
	"github.com/postline/postline/utils"
)

// FeedController serves the four feed views: global index, group, profile,
// and the viewer's follow feed.
type FeedController struct {
	feeds *services.FeedService
	pages cache.PageCache
}

// NewFeedController creates a new FeedController instance.
func NewFeedController(db *gorm.DB, pages cache.PageCache) *FeedController {
	return &FeedController{feeds: services.NewFeedService(db), pages: pages}
}

// Index serves the global feed. The rendered body is cached for the
// configured TTL, keyed by the full request URI so every page number gets
// its own slot. Posts created or deleted while the slot is warm stay
// invisible until the window expires.
func (f *FeedController) Index(ctx *gin.Context) {
	key := ctx.Request.URL.RequestURI()
	if body, ok := f.pages.Get(key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	posts, err := f.feeds.GlobalFeed()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load feed")
		return
	}
	page := services.Paginate(posts, ctx.Query("page"))

	body, err := json.Marshal(utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"page": page}})
	if err != nil {
		utils.Success(ctx, gin.H{"page": page})
		return
	}
	f.pages.Set(key, body)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GroupPosts serves posts filed under the group resolved from slug. Not
// cached. Unknown slugs answer 404.
func (f *FeedController) GroupPosts(ctx *gin.Context) {
	slug := ctx.Param("slug")
	group, posts, err := f.feeds.GroupFeed(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load group feed")
		return
	}
	utils.Success(ctx, gin.H{
		"group": group,
		"page":  services.Paginate(posts, ctx.Query("page")),
	})
}

// Profile serves an author's posts plus follow counts and, for authenticated
// viewers, whether they already follow this author.
func (f *FeedController) Profile(ctx *gin.Context) {
	username := ctx.Param("username")
	viewerID, _ := getUserID(ctx)
	info, posts, err := f.feeds.ProfileFeed(username, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load profile")
		return
	}
	utils.Success(ctx, gin.H{
		"profile":   info.Profile,
		"followers": info.Followers,
		"following": info.Following,
		"followed":  info.Followed,
		"page":      services.Paginate(posts, ctx.Query("page")),
	})
}

// FollowIndex serves posts by the authors the viewer follows. An empty
// follow graph yields an empty page, not an error.
func (f *FeedController) FollowIndex(ctx *gin.Context) {
	viewerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	posts, err := f.feeds.FollowFeed(viewerID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load follow feed")
		return
	}
	utils.Success(ctx, gin.H{"page": services.Paginate(posts, ctx.Query("page"))})
}

// ClearCache drops the whole page cache on demand. Admin only; there is no
// automatic invalidation on post create/delete, staleness up to the TTL is
// the accepted tradeoff.
func (f *FeedController) ClearCache(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40310, "admin only")
		return
	}
	f.pages.Clear()
	utils.Success(ctx, gin.H{"message": "cache cleared"})
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func getUsername(ctx *gin.Context) string {
	value, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return ""
	}
	name, _ := value.(string)
	return name
}

func isAdmin(ctx *gin.Context) bool {
	uname := getUsername(ctx)
	if uname == "" {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}
