package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postline/postline/models"
	"github.com/postline/postline/utils"
)

// StatsController exposes public site counters.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns entity totals plus today's aggregated page views.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var users, posts, groups, comments int64
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &users},
		{&models.Post{}, &posts},
		{&models.Group{}, &groups},
		{&models.Comment{}, &comments},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dst).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load stats")
			return
		}
	}

	now := time.Now().In(time.Local)
	localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var todayViews int64
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", localMidnight).
		Select("COALESCE(SUM(count), 0)").
		Scan(&todayViews).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load page views")
		return
	}

	utils.Success(ctx, gin.H{
		"users":       users,
		"posts":       posts,
		"groups":      groups,
		"comments":    comments,
		"views_today": todayViews,
	})
}
