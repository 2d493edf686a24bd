package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postline/postline/models"
)

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	follows := NewFollowService(db)
	doomed := createUser(t, db, "doomed")
	bystander := createUser(t, db, "bystander")

	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doomedPost := createPost(t, db, doomed, nil, "mine", when)
	otherPost := createPost(t, db, bystander, nil, "other", when)

	// Comments on both posts, follow edges in both directions.
	require.NoError(t, db.Create(&models.Comment{PostID: doomedPost.ID, UserID: bystander.ID, Text: "on doomed post"}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: otherPost.ID, UserID: doomed.ID, Text: "by doomed user"}).Error)
	require.NoError(t, follows.Follow(doomed.ID, "bystander"))
	require.NoError(t, follows.Follow(bystander.ID, "doomed"))

	require.NoError(t, users.Delete(doomed.ID))

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", doomed.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Post{}).Where("user_id = ?", doomed.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n, "comments by the user and on their posts are gone")
	require.NoError(t, db.Model(&models.Follow{}).Count(&n).Error)
	assert.Zero(t, n, "edges in both directions are gone")

	// The bystander and their post survive.
	require.NoError(t, db.Model(&models.Post{}).Where("user_id = ?", bystander.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
