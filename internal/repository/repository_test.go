package repository

import (
	"context"
	"testing"

	"parley/internal/database"
	"parley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email, mobile string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Mobile: mobile, Password: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserRepositoryCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "alice", Email: "alice@example.com", Mobile: "111", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Name)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	got.Name = "alice2"
	require.NoError(t, repo.Update(ctx, got))
	updated, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Name)

	require.NoError(t, repo.Delete(ctx, user.ID))
	gone, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestUserRepositoryUniqueEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "a", Email: "dup@example.com", Mobile: "1", Password: "x"}))
	err := repo.Create(ctx, &models.User{Name: "b", Email: "dup@example.com", Mobile: "2", Password: "x"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepositorySearchByName(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, db, "alice cooper", "a@example.com", "1")
	createUser(t, db, "bob", "b@example.com", "2")
	createUser(t, db, "malice", "c@example.com", "3")

	got, err := repo.SearchByName(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestFollowRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice", "a@example.com", "1")
	bob := createUser(t, db, "bob", "b@example.com", "2")

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID}))

	follow, err := repo.Get(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, follow)

	// duplicate rejected by the unique index
	err = repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	followers, err := repo.ListFollowers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	following, err := repo.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)

	require.NoError(t, repo.Delete(ctx, alice.ID, bob.ID))
	gone, err := repo.Get(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDiscussionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice", "a@example.com", "1")
	bob := createUser(t, db, "bob", "b@example.com", "2")

	d1 := &models.Discussion{Text: "go generics deep dive", Hashtags: "#golang", UserID: alice.ID}
	d2 := &models.Discussion{Text: "weekend hiking", Hashtags: "#outdoors", UserID: bob.ID}
	require.NoError(t, repo.Create(ctx, d1))
	require.NoError(t, repo.Create(ctx, d2))

	all, err := repo.List(ctx, 0, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.List(ctx, alice.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, d1.ID, mine[0].ID)

	found, err := repo.SearchByText(ctx, "generics")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, d1.ID, found[0].ID)

	d1.Text = "go generics, revisited"
	require.NoError(t, repo.Update(ctx, d1))

	require.NoError(t, repo.Delete(ctx, d1.ID))
	gone, err := repo.GetByID(ctx, d1.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCommentRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice", "a@example.com", "1")
	discussion := &models.Discussion{Text: "topic", UserID: alice.ID}
	require.NoError(t, db.Create(discussion).Error)

	comment := &models.Comment{Text: "first", DiscussionID: discussion.ID, UserID: alice.ID}
	require.NoError(t, repo.Create(ctx, comment))

	byDiscussion, err := repo.ListByDiscussion(ctx, discussion.ID)
	require.NoError(t, err)
	require.Len(t, byDiscussion, 1)

	comment.Text = "edited"
	require.NoError(t, repo.Update(ctx, comment))
	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)

	require.NoError(t, repo.Delete(ctx, comment.ID))
	gone, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestLikeRepositoryUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice", "a@example.com", "1")

	target, err := repo.ResolveTarget(ctx, models.TargetDiscussion, 7)
	require.NoError(t, err)
	require.NotZero(t, target.ID)

	// resolving again returns the same row
	again, err := repo.ResolveTarget(ctx, models.TargetDiscussion, 7)
	require.NoError(t, err)
	assert.Equal(t, target.ID, again.ID)

	require.NoError(t, repo.Create(ctx, &models.Like{TargetEntityID: target.ID, UserID: alice.ID}))

	err = repo.Create(ctx, &models.Like{TargetEntityID: target.ID, UserID: alice.ID})
	assert.ErrorIs(t, err, ErrDuplicateLike)

	likes, err := repo.ListByTarget(ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 1)
}
