package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarURL(t *testing.T) {
	assert.Equal(t,
		"https://api.dicebear.com/9.x/thumbs/png?seed=Shadow99",
		AvatarURL("", "Shadow99"),
	)

	// Seeds are query-escaped, never raw
	assert.Equal(t,
		"https://api.dicebear.com/9.x/thumbs/png?seed=two+words%26more",
		AvatarURL("", "two words&more"),
	)

	assert.Equal(t,
		"https://avatars.example.com/gen?seed=player",
		AvatarURL("https://avatars.example.com/gen", "player"),
	)
}
