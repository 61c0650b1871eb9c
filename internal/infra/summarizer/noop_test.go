package summarizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOp_SummarizeArticle(t *testing.T) {
	n := NewNoOp()

	bullets, err := n.SummarizeArticle(context.Background(), "title",
		"First sentence here. Second sentence follows. Third one too. Fourth is dropped.")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"First sentence here",
		"Second sentence follows",
		"Third one too",
	}, bullets)
}

func TestNoOp_SummarizeArticle_EmptyContent(t *testing.T) {
	n := NewNoOp()
	_, err := n.SummarizeArticle(context.Background(), "title", "")
	assert.Error(t, err)
}

func TestNoOp_DeterministicExtras(t *testing.T) {
	n := NewNoOp()

	tip, err := n.GenerateTip(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, tip)

	tool, err := n.ExtractToolMention(context.Background(), "t", "c")
	require.NoError(t, err)
	assert.Nil(t, tool)

	spotlight, err := n.GenerateToolSpotlight(context.Background())
	require.NoError(t, err)
	require.NotNil(t, spotlight)
	assert.Equal(t, "NotebookLM", spotlight.Name)
}
