package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postline/postline/config"
	"github.com/postline/postline/models"
	"github.com/postline/postline/services"
	"github.com/postline/postline/utils"
)

// PostController manages post and comment CRUD plus the detail view.
type PostController struct {
	db    *gorm.DB
	feeds *services.FeedService
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db, feeds: services.NewFeedService(db)}
}

// postForm is the validated input shared by create and edit. Create and edit
// are two explicit operations; only the validation is common.
type postForm struct {
	Text    string
	GroupID *uint
	Image   string
}

// bindPostForm validates the submitted form. A non-nil fieldErrors map means
// the submission must be re-rendered with annotations and nothing persisted.
func (p *PostController) bindPostForm(ctx *gin.Context) (postForm, map[string]string) {
	fieldErrors := map[string]string{}
	form := postForm{}

	form.Text = utils.Sanitize(strings.TrimSpace(ctx.PostForm("text")))
	if form.Text == "" {
		fieldErrors["text"] = "this field is required"
	}

	if slug := strings.TrimSpace(ctx.PostForm("group")); slug != "" {
		var group models.Group
		if err := p.db.Where("slug = ?", slug).First(&group).Error; err != nil {
			fieldErrors["group"] = "unknown group"
		} else {
			form.GroupID = &group.ID
		}
	}

	if file, err := ctx.FormFile("image"); err == nil && file != nil {
		path, saveErr := p.saveImage(ctx, file)
		if saveErr != nil {
			fieldErrors["image"] = "failed to store image"
		} else {
			form.Image = path
		}
	}

	if len(fieldErrors) > 0 {
		return form, fieldErrors
	}
	return form, nil
}

func (p *PostController) saveImage(ctx *gin.Context, file *multipart.FileHeader) (string, error) {
	cfg := config.Get()
	dir := filepath.Join(cfg.MediaRoot, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(file.Filename))
	dst := filepath.Join(dir, name)
	if err := ctx.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(dst), nil
}

// GetPost returns a single post with its comments, newest first, and whether
// the viewer may edit it.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parsePostID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
		return
	}
	post, comments, err := p.feeds.PostDetail(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load post")
		return
	}
	viewerID, _ := getUserID(ctx)
	utils.Success(ctx, gin.H{
		"post":     post,
		"comments": comments,
		"can_edit": viewerID != 0 && viewerID == post.UserID,
	})
}

// CreateForm returns what the create form needs: the selectable groups.
func (p *PostController) CreateForm(ctx *gin.Context) {
	var groups []models.Group
	if err := p.db.Order("title").Find(&groups).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups, "is_edit": false})
}

// CreatePost persists a new post for the authenticated viewer and redirects
// to their profile. Validation failures re-render the form with field-level
// errors and persist nothing.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	form, fieldErrors := p.bindPostForm(ctx)
	if fieldErrors != nil {
		utils.Respond(ctx, http.StatusBadRequest, 40020, "validation failed", gin.H{"errors": fieldErrors})
		return
	}

	post := models.Post{
		UserID:  userID,
		GroupID: form.GroupID,
		Text:    form.Text,
		Image:   form.Image,
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to create post")
		return
	}

	ctx.Redirect(http.StatusFound, "/profile/"+getUsername(ctx)+"/")
}

// EditForm returns the current field values for the edit form. Non-authors
// are redirected to the read-only detail view.
func (p *PostController) EditForm(ctx *gin.Context) {
	post, ok := p.loadOwnPost(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"post": post, "is_edit": true})
}

// UpdatePost applies an edit by the post's author and redirects to the
// detail view. Non-authors are redirected there without modification.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	post, ok := p.loadOwnPost(ctx)
	if !ok {
		return
	}

	form, fieldErrors := p.bindPostForm(ctx)
	if fieldErrors != nil {
		utils.Respond(ctx, http.StatusBadRequest, 40021, "validation failed", gin.H{"errors": fieldErrors})
		return
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	if form.Image != "" {
		post.Image = form.Image
	}
	if err := p.db.Save(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to update post")
		return
	}

	ctx.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

// loadOwnPost resolves the post from the path and enforces author-only
// access: unknown ids answer 404, a foreign post redirects to its detail
// view. The bool result reports whether the caller may proceed.
func (p *PostController) loadOwnPost(ctx *gin.Context) (*models.Post, bool) {
	postID, ok := parsePostID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40421, "post not found")
		return nil, false
	}
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40421, "post not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return nil, false
	}
	userID, _ := getUserID(ctx)
	if post.UserID != userID {
		// Deliberate UX choice: no error, just the read-only view.
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
		ctx.Abort()
		return nil, false
	}
	return &post, true
}

// AddComment attaches a comment to a post and redirects back to the detail
// view. Empty text re-renders with a field error and persists nothing.
func (p *PostController) AddComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	postID, ok := parsePostID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
		return
	}
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load post")
		return
	}

	text := utils.Sanitize(strings.TrimSpace(ctx.PostForm("text")))
	if text == "" {
		utils.Respond(ctx, http.StatusBadRequest, 40022, "validation failed", gin.H{"errors": gin.H{"text": "this field is required"}})
		return
	}

	comment := models.Comment{PostID: post.ID, UserID: userID, Text: text}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to create comment")
		return
	}

	ctx.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

func parsePostID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
