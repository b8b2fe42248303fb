package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_HasAnyMode(t *testing.T) {
	u := User{Nick: "alice", Modes: "ov"}
	assert.True(t, u.HasAnyMode("o"))
	assert.True(t, u.HasAnyMode("q", "v"))
	assert.False(t, u.HasAnyMode("q"))
	assert.False(t, u.HasAnyMode())
	assert.False(t, User{}.HasAnyMode("o"))
}

func TestStatusCodeError_Classification(t *testing.T) {
	cases := []struct {
		code   int
		client bool
	}{
		{302, false},
		{400, false}, // exclusive lower bound
		{401, true},
		{404, true},
		{499, true},
		{500, false}, // exclusive upper bound
		{502, false},
	}
	for _, tc := range cases {
		err := &StatusCodeError{Code: tc.code}
		assert.Equal(t, tc.client, err.ClientError(), "code %d", tc.code)
	}
}

func TestBackoff_DoublesAndCaps(t *testing.T) {
	assert.Equal(t, 1*time.Second, backoff(0))
	assert.Equal(t, 2*time.Second, backoff(1))
	assert.Equal(t, 32*time.Second, backoff(5))
	assert.Equal(t, 64*time.Second, backoff(6))
	assert.Equal(t, 64*time.Second, backoff(7))
	assert.Equal(t, 64*time.Second, backoff(100))
}
