package college

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollege(t *testing.T) {
	t.Run("creates a college with courses", func(t *testing.T) {
		c, err := NewCollege("Engineering", "ENG", []string{"CS", "EE"})
		require.NoError(t, err)

		assert.Equal(t, "Engineering", c.Name)
		assert.Equal(t, "ENG", c.Code)
		assert.Equal(t, []string{"CS", "EE"}, c.Courses)
	})

	t.Run("requires name and code", func(t *testing.T) {
		_, err := NewCollege("", "ENG", nil)
		assert.Error(t, err)
		_, err = NewCollege("Engineering", "", nil)
		assert.Error(t, err)
	})
}

func TestOffersCourse(t *testing.T) {
	c, err := NewCollege("Engineering", "ENG", []string{"CS", "Electrical Engineering"})
	require.NoError(t, err)

	t.Run("matches configured courses", func(t *testing.T) {
		assert.True(t, c.OffersCourse("CS"))
		assert.True(t, c.OffersCourse("Electrical Engineering"))
	})

	t.Run("misses unknown courses and blanks", func(t *testing.T) {
		assert.False(t, c.OffersCourse("Medicine"))
		assert.False(t, c.OffersCourse("cs"))
		assert.False(t, c.OffersCourse(""))
	})
}

func TestUpdateCourses(t *testing.T) {
	c, err := NewCollege("Engineering", "ENG", []string{"CS"})
	require.NoError(t, err)
	before := c.Version

	c.UpdateCourses([]string{"CS", "ME"})

	assert.Equal(t, []string{"CS", "ME"}, c.Courses)
	assert.Equal(t, before+1, c.Version)
}
