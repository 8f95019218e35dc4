package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBytes(t *testing.T) {
	assert.Equal(t, HTTP10, FromBytes([]byte("HTTP/1.0")))
	assert.Equal(t, HTTP11, FromBytes([]byte("HTTP/1.1")))
	assert.Equal(t, Unknown, FromBytes([]byte("HTTP/1.2")))
	assert.Equal(t, Unknown, FromBytes([]byte("HTTP/2.0")))
	assert.Equal(t, Unknown, FromBytes([]byte("HTTP/11")))
	assert.Equal(t, Unknown, FromBytes([]byte("ICMP/1.1")))
	assert.Equal(t, Unknown, FromBytes(nil))
}

func TestVersion(t *testing.T) {
	assert.Equal(t, 1, HTTP11.Major())
	assert.Equal(t, 1, HTTP11.Minor())
	assert.Equal(t, 1, HTTP10.Major())
	assert.Equal(t, 0, HTTP10.Minor())
	assert.Equal(t, "HTTP/1.1", HTTP11.String())
}
