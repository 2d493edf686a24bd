package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/postline/postline/models"
)

var feedBase = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestGlobalFeedNewestFirstWithIDTiebreak(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)
	alice := createUser(t, db, "alice")

	oldest := createPost(t, db, alice, nil, "oldest", feedBase)
	tieLow := createPost(t, db, alice, nil, "tie low id", feedBase.Add(time.Hour))
	tieHigh := createPost(t, db, alice, nil, "tie high id", feedBase.Add(time.Hour))

	posts, err := feeds.GlobalFeed()
	require.NoError(t, err)
	require.Len(t, posts, 3)
	// Equal timestamps break ties by descending id.
	assert.Equal(t, tieHigh.ID, posts[0].ID)
	assert.Equal(t, tieLow.ID, posts[1].ID)
	assert.Equal(t, oldest.ID, posts[2].ID)
}

func TestGroupFeedReturnsOnlyGroupPostsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)
	alice := createUser(t, db, "alice")
	group := createGroup(t, db, "test-slug")
	other := createGroup(t, db, "other")

	first := createPost(t, db, alice, &group, "first", feedBase)
	second := createPost(t, db, alice, &group, "second", feedBase.Add(time.Minute))
	createPost(t, db, alice, &other, "elsewhere", feedBase.Add(2*time.Minute))
	createPost(t, db, alice, nil, "ungrouped", feedBase.Add(3*time.Minute))

	got, posts, err := feeds.GroupFeed("test-slug")
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestGroupFeedEmptyGroupIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)
	createGroup(t, db, "quiet")

	_, posts, err := feeds.GroupFeed("quiet")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)

	_, _, err := feeds.GroupFeed("nonexistent-slug")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGroupDeleteKeepsPostsOutsideGroupFeeds(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)
	groups := NewGroupService(db)
	alice := createUser(t, db, "alice")
	group := createGroup(t, db, "doomed")
	post := createPost(t, db, alice, &group, "survivor", feedBase)

	require.NoError(t, groups.Delete("doomed"))

	global, err := feeds.GlobalFeed()
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, post.ID, global[0].ID)
	assert.Nil(t, global[0].GroupID)

	_, profilePosts, err := feeds.ProfileFeed("alice", 0)
	require.NoError(t, err)
	assert.Len(t, profilePosts, 1)

	_, _, err = feeds.GroupFeed("doomed")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProfileFeedCountsAndFollowedFlag(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)
	follows := NewFollowService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	createPost(t, db, alice, nil, "hello", feedBase)
	require.NoError(t, follows.Follow(bob.ID, "alice"))
	require.NoError(t, follows.Follow(carol.ID, "alice"))
	require.NoError(t, follows.Follow(alice.ID, "bob"))

	info, posts, err := feeds.ProfileFeed("alice", bob.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(2), info.Followers)
	assert.Equal(t, int64(1), info.Following)
	assert.True(t, info.Followed)

	// Anonymous viewers never get the followed flag.
	info, _, err = feeds.ProfileFeed("alice", 0)
	require.NoError(t, err)
	assert.False(t, info.Followed)
}

func TestProfileFeedUnknownUsername(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)

	_, _, err := feeds.ProfileFeed("nobody", 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFollowFeedScopedToFollowedAuthors(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)
	follows := NewFollowService(db)
	a := createUser(t, db, "a")
	b := createUser(t, db, "b")
	c := createUser(t, db, "c")

	post := createPost(t, db, b, nil, "from b", feedBase)
	createPost(t, db, c, nil, "from c", feedBase.Add(time.Minute))
	require.NoError(t, follows.Follow(a.ID, "b"))

	got, err := feeds.FollowFeed(a.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, post.ID, got[0].ID)

	// An unrelated user with no follow edges gets an empty collection.
	got, err = feeds.FollowFeed(c.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostDetailCommentsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice, nil, "commented", feedBase)

	for i, text := range []string{"first", "second", "third"} {
		comment := models.Comment{
			PostID:    post.ID,
			UserID:    alice.ID,
			Text:      text,
			CreatedAt: feedBase.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&comment).Error)
	}

	got, comments, err := feeds.PostDetail(post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "first", comments[2].Text)
}

func TestPostDetailUnknownID(t *testing.T) {
	db := newTestDB(t)
	feeds := NewFeedService(db)

	_, _, err := feeds.PostDetail(12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
