package routing

import (
	"testing"

	"github.com/eclipse-uprotocol/up-streamer-go/subscription"
	"github.com/eclipse-uprotocol/up-streamer-go/uri"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topic(t *testing.T, authority string, ueID uint32, version uint8, resourceID uint16) uri.URI {
	t.Helper()
	u, err := uri.New(authority, ueID, version, resourceID)
	require.NoError(t, err)
	return u
}

func TestResolveBlocksMismatchedAuthority(t *testing.T) {
	subs := []subscription.Record{{Topic: topic(t, "authority-a", 0x5BA0, 0x1, 0x8001)}}
	filters := ResolvePublishSourceFilters("authority-c", "authority-b", subs)
	assert.Empty(t, filters)
}

func TestResolveAllowsWildcardTopicAuthority(t *testing.T) {
	wildcardTopic := uri.Wildcard(uri.WildcardAuthority)
	wildcardTopic.UEID = 0x5BA0
	wildcardTopic.Version = 0x1
	wildcardTopic.ResourceID = 0x8001
	subs := []subscription.Record{{Topic: wildcardTopic}}

	filters := ResolvePublishSourceFilters("authority-c", "authority-b", subs)
	require.Len(t, filters, 1)
	assert.Equal(t, "authority-c", filters[0].Authority)
	assert.Equal(t, wildcardTopic.UEID, filters[0].UEID)
	assert.Equal(t, wildcardTopic.Version, filters[0].Version)
	assert.Equal(t, wildcardTopic.ResourceID, filters[0].ResourceID)
}

func TestResolveDedupesAcrossSubscribers(t *testing.T) {
	subs := []subscription.Record{
		{Topic: topic(t, "authority-a", 0x5BA0, 0x1, 0x8001), Subscriber: topic(t, "authority-b", 0x5678, 0x1, 0x1234)},
		{Topic: topic(t, "authority-a", 0x5BA0, 0x1, 0x8001), Subscriber: topic(t, "authority-b", 0x5679, 0x1, 0x1234)},
		{Topic: topic(t, "authority-z", 0x5BA0, 0x1, 0x8001), Subscriber: topic(t, "authority-b", 0x567A, 0x1, 0x1234)},
	}

	filters := ResolvePublishSourceFilters("authority-a", "authority-b", subs)

	require.Len(t, filters, 1)
	assert.Equal(t, topic(t, "authority-a", 0x5BA0, 0x1, 0x8001), filters[0])
}

func TestResolveWithNoSubscribersReturnsEmpty(t *testing.T) {
	filters := ResolvePublishSourceFilters("authority-a", "authority-b", nil)
	assert.Empty(t, filters)
}
