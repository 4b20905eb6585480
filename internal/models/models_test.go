package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "deep-sky-imaging", Slugify("Deep Sky Imaging"))
	assert.Equal(t, "m31-andromeda", Slugify("M31 (Andromeda)"))
	assert.Equal(t, "astro", Slugify("  Astro!  "))
	assert.Equal(t, "", Slugify("???"))
}

func TestValidVisibility(t *testing.T) {
	assert.True(t, ValidVisibility(VisibilityPublic))
	assert.True(t, ValidVisibility(VisibilityFollowers))
	assert.True(t, ValidVisibility(VisibilityPrivate))
	assert.False(t, ValidVisibility("friends"))
	assert.False(t, ValidVisibility(""))
}

func TestValidShopCategory(t *testing.T) {
	for _, category := range ShopCategories {
		assert.True(t, ValidShopCategory(category))
	}
	assert.False(t, ValidShopCategory("spaceships"))
}

func TestDefaultProfilePicture(t *testing.T) {
	url := DefaultProfilePicture("stella")
	assert.Contains(t, url, "stella")
}
