package seed

import (
	"testing"

	"parley/internal/database"
	"parley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeederPopulatesAndClears(t *testing.T) {
	db, err := database.ConnectTest()
	require.NoError(t, err)

	s := NewSeeder(db)

	users, err := s.Users(5)
	require.NoError(t, err)
	require.Len(t, users, 5)

	// seeded credentials actually work
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte(Password)))

	_, err = s.Follows(users)
	require.NoError(t, err)

	discussions, err := s.Discussions(users, 10)
	require.NoError(t, err)
	require.Len(t, discussions, 10)
	for _, d := range discussions {
		assert.NotEmpty(t, d.Text)
		assert.NotZero(t, d.UserID)
	}

	_, err = s.Comments(users, discussions, 3)
	require.NoError(t, err)

	likes, err := s.Likes(users, discussions)
	require.NoError(t, err)

	var likeCount int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeCount).Error)
	assert.Equal(t, int64(likes), likeCount)

	require.NoError(t, s.ClearAll())

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Zero(t, userCount)
}
