package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUsers(t *testing.T) {
	input := "user_id,country,signup_source\nu1,US,organic\nu2,IN,paid\n"

	users, err := ReadUsers(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].UserID)
	assert.Equal(t, "US", users[0].Country)
	assert.Equal(t, "organic", users[0].SignupSource)
	assert.Equal(t, "u2", users[1].UserID)
}

func TestReadUsersMissingAttributesDefaultUnknown(t *testing.T) {
	input := "user_id,country\nu1,\nu2,DE\n"

	users, err := ReadUsers(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, UnknownValue, users[0].Country)
	assert.Equal(t, UnknownValue, users[0].SignupSource)
	assert.Equal(t, "DE", users[1].Country)
	assert.Equal(t, UnknownValue, users[1].SignupSource)
}

func TestReadUsersHeaderCaseInsensitive(t *testing.T) {
	input := "User_ID,Country,Signup_Source\nu1,US,ads\n"

	users, err := ReadUsers(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].UserID)
	assert.Equal(t, "ads", users[0].SignupSource)
}

func TestReadUsersEmptyIDSkipped(t *testing.T) {
	input := "user_id,country\n,US\nu1,US\n"

	users, err := ReadUsers(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].UserID)
}

func TestReadUsersNoUserIDColumn(t *testing.T) {
	input := "name,country\nalice,US\n"

	_, err := ReadUsers(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}

func TestReadUsersEmptyFeed(t *testing.T) {
	users, err := ReadUsers(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, users)
}
