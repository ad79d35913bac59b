package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryColors(t *testing.T) {
	assert.Nil(t, CategoryColors(0))
	cs := CategoryColors(5)
	assert.Len(t, cs, 5)

	seen := map[string]bool{}
	for _, h := range CategoryHexColors(5) {
		assert.Len(t, h, 7)
		seen[h] = true
	}
	assert.Len(t, seen, 5)
}
