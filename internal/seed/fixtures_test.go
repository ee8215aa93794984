package seed

import (
	"testing"

	"farmiq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtures(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, LoadFixtures(db))

	var schemes, labs, experts, crops int64
	require.NoError(t, db.Model(&models.Scheme{}).Count(&schemes).Error)
	require.NoError(t, db.Model(&models.Lab{}).Count(&labs).Error)
	require.NoError(t, db.Model(&models.Expert{}).Count(&experts).Error)
	require.NoError(t, db.Model(&models.Crop{}).Count(&crops).Error)

	assert.EqualValues(t, 6, schemes)
	assert.EqualValues(t, 3, labs)
	assert.EqualValues(t, 4, experts)
	assert.EqualValues(t, 7, crops)

	var pmKisan models.Scheme
	require.NoError(t, db.Where("name = ?", "PM-KISAN").First(&pmKisan).Error)
	assert.Equal(t, 2.0, pmKisan.MaxLandholding)
	assert.True(t, pmKisan.EligibleFor("Maharashtra", 1.5, ""))
	assert.False(t, pmKisan.EligibleFor("Maharashtra", 5, ""))
}

func TestLoadFixtures_Rerun(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, LoadFixtures(db))
	require.NoError(t, LoadFixtures(db))

	var schemes int64
	require.NoError(t, db.Model(&models.Scheme{}).Count(&schemes).Error)
	assert.EqualValues(t, 6, schemes, "rerun must not duplicate rows")
}
