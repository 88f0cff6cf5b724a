package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"homeclean-backend/internal/database"
)

func TestPending_SortedAndEmbedded(t *testing.T) {
	names, err := database.Pending()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"001_profiles.sql",
		"002_properties_tasks.sql",
		"003_room_photos.sql",
	}, names)
}
