package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyAuthority(t *testing.T) {
	_, err := New("", 1, 1, 1)
	require.Error(t, err)
}

func TestNewBuildsURI(t *testing.T) {
	u, err := New("authority-a", 0x5BA0, 0x1, 0x8001)
	require.NoError(t, err)
	assert.Equal(t, URI{Authority: "authority-a", UEID: 0x5BA0, Version: 0x1, ResourceID: 0x8001}, u)
}

func TestWildcard(t *testing.T) {
	w := Wildcard("authority-a")
	assert.Equal(t, "authority-a", w.Authority)
	assert.Equal(t, uint32(AllUEID), w.UEID)
	assert.Equal(t, uint8(AllVersion), w.Version)
	assert.Equal(t, uint16(AllResource), w.ResourceID)
}

func TestIsWildcardAuthority(t *testing.T) {
	assert.True(t, IsWildcardAuthority("*"))
	assert.False(t, IsWildcardAuthority("authority-a"))
}

func TestWithAuthorityPreservesOtherFields(t *testing.T) {
	topic := Wildcard("*")
	topic.UEID = 0x5BA0
	topic.Version = 0x1
	topic.ResourceID = 0x8001

	rewritten := topic.WithAuthority("authority-c")

	assert.Equal(t, "authority-c", rewritten.Authority)
	assert.Equal(t, topic.UEID, rewritten.UEID)
	assert.Equal(t, topic.Version, rewritten.Version)
	assert.Equal(t, topic.ResourceID, rewritten.ResourceID)
}

func TestStringIsStable(t *testing.T) {
	u := URI{Authority: "a", UEID: 0x5BA0, Version: 0x1, ResourceID: 0x8001}
	assert.Equal(t, "//a/5BA0/1/8001", u.String())
}
