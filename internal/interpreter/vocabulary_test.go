package interpreter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupTopic(t *testing.T) {
	require.Equal(t, TopicExample, LookupTopic("example"))
	require.Equal(t, TopicQmlAttachedMethod, LookupTopic("qmlattachedmethod"))
	require.Equal(t, TopicUnrecognized, LookupTopic("title"), "meta commands are not topics")
	require.Equal(t, TopicUnrecognized, LookupTopic("flibbertigibbet"))
	require.Equal(t, TopicUnrecognized, LookupTopic(""))
}

func TestLookupMeta(t *testing.T) {
	require.Equal(t, MetaTitle, LookupMeta("title"))
	require.Equal(t, MetaMeta, LookupMeta("meta"))
	require.Equal(t, MetaUnrecognized, LookupMeta("example"), "topic commands are not metas")
	require.Equal(t, MetaUnrecognized, LookupMeta("flibbertigibbet"))
}

func TestVocabulariesAreDisjoint(t *testing.T) {
	for _, name := range topicNames {
		require.Equal(t, MetaUnrecognized, LookupMeta(name), "topic %q must not also be a meta command", name)
	}
	for _, name := range metaNames {
		require.Equal(t, TopicUnrecognized, LookupTopic(name), "meta %q must not also be a topic command", name)
	}
}

func TestCommandStrings(t *testing.T) {
	require.Equal(t, "example", TopicExample.String())
	require.Equal(t, "<unrecognized>", TopicUnrecognized.String())
	require.Equal(t, "qmlinstantiates", MetaQmlInstantiates.String())
	require.Equal(t, "<unrecognized>", MetaUnrecognized.String())
}

func TestEveryTopicExceptDontDocumentHasFactory(t *testing.T) {
	for topic, name := range topicNames {
		if topic == TopicDontDocument {
			continue
		}
		require.Contains(t, entityFactories, topic, "topic %q needs an entity factory", name)
	}
}

func TestIsMarkup(t *testing.T) {
	require.True(t, IsMarkup("snippet"))
	require.True(t, IsMarkup("list"))
	require.True(t, IsMarkup("note"))
	require.False(t, IsMarkup("title"))
	require.False(t, IsMarkup("example"))
	require.False(t, IsMarkup("flibbertigibbet"))
}

func TestMarkupDoesNotOverlapVocabularies(t *testing.T) {
	for name := range markupCommands {
		require.Equal(t, TopicUnrecognized, LookupTopic(name), "markup %q must not be a topic command", name)
		require.Equal(t, MetaUnrecognized, LookupMeta(name), "markup %q must not be a meta command", name)
	}
}
