package services

import (
	"gorm.io/gorm"

	"github.com/postline/postline/models"
)

// feedOrder is the single total order shared by every feed view: newest
// first, descending id on equal timestamps.
const feedOrder = "posts.created_at DESC, posts.id DESC"

// FeedService builds the ordered post collections behind the index, group,
// profile, and follow views.
type FeedService struct {
	db *gorm.DB
}

// NewFeedService creates a new FeedService instance.
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// GlobalFeed returns every post, newest first.
func (s *FeedService) GlobalFeed() ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").Preload("Group").Order(feedOrder).Find(&posts).Error
	return posts, err
}

// GroupFeed resolves slug and returns the group together with its posts.
// Returns gorm.ErrRecordNotFound when no group matches the slug; a group
// with no posts yields an empty collection, not an error.
func (s *FeedService) GroupFeed(slug string) (*models.Group, []models.Post, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, nil, err
	}
	var posts []models.Post
	err := s.db.Where("group_id = ?", group.ID).
		Preload("User").
		Order(feedOrder).
		Find(&posts).Error
	return &group, posts, err
}

// ProfileInfo carries the follow-graph context shown on a profile page.
type ProfileInfo struct {
	Profile   models.User `json:"profile"`
	Followers int64       `json:"followers"` // users following this profile
	Following int64       `json:"following"` // authors this profile follows
	Followed  bool        `json:"followed"`  // viewer already follows this profile
}

// ProfileFeed resolves username and returns the author's posts plus follow
// counts. viewerID is zero for anonymous viewers; Followed is only computed
// for authenticated ones. Returns gorm.ErrRecordNotFound for an unknown
// username.
func (s *FeedService) ProfileFeed(username string, viewerID uint) (*ProfileInfo, []models.Post, error) {
	var profile models.User
	if err := s.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, nil, err
	}

	var posts []models.Post
	if err := s.db.Where("user_id = ?", profile.ID).
		Preload("User").Preload("Group").
		Order(feedOrder).
		Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	info := ProfileInfo{Profile: profile}
	if err := s.db.Model(&models.Follow{}).
		Where("author_id = ?", profile.ID).
		Count(&info.Followers).Error; err != nil {
		return nil, nil, err
	}
	if err := s.db.Model(&models.Follow{}).
		Where("user_id = ?", profile.ID).
		Count(&info.Following).Error; err != nil {
		return nil, nil, err
	}
	if viewerID != 0 && viewerID != profile.ID {
		var n int64
		if err := s.db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", viewerID, profile.ID).
			Count(&n).Error; err != nil {
			return nil, nil, err
		}
		info.Followed = n > 0
	}
	return &info, posts, nil
}

// FollowFeed returns posts authored by any user the viewer follows. A viewer
// with no follow edges gets an empty collection.
func (s *FeedService) FollowFeed(viewerID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.
		Joins("JOIN follows ON follows.author_id = posts.user_id AND follows.user_id = ?", viewerID).
		Preload("User").Preload("Group").
		Order(feedOrder).
		Find(&posts).Error
	return posts, err
}

// PostDetail returns a single post with its comments, newest comment first.
// Returns gorm.ErrRecordNotFound for an unknown id.
func (s *FeedService) PostDetail(postID uint) (*models.Post, []models.Comment, error) {
	var post models.Post
	if err := s.db.Preload("User").Preload("Group").First(&post, postID).Error; err != nil {
		return nil, nil, err
	}
	var comments []models.Comment
	err := s.db.Where("post_id = ?", post.ID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return &post, comments, err
}
