package method

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethod(t *testing.T) {
	for _, m := range List {
		assert.Equal(t, m, Parse(m.String()))
	}

	assert.Equal(t, Unknown, Parse("GETT"))
	assert.Equal(t, Unknown, Parse("get"))
	assert.Equal(t, Unknown, Parse(""))
}
