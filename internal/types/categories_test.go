package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCounts_AddAndTop(t *testing.T) {
	var c CategoryCounts

	_, ok := c.Top()
	assert.False(t, ok)

	c.Add("product", 1)
	c.Add("funding", 2)
	c.Add("product", 1)
	c.Add("hiring", 0)

	assert.Len(t, c, 2)
	assert.Equal(t, 2, c.Get("product"))
	assert.Equal(t, 0, c.Get("hiring"))

	top, ok := c.Top()
	require.True(t, ok)
	assert.Equal(t, "product", top, "ties resolve to the first-seen category")
}

func TestCategoryCounts_JSONKeepsOrder(t *testing.T) {
	c := CategoryCounts{}
	c.Add("market", 3)
	c.Add("awards", 1)
	c.Add("funding", 2)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"market":3,"awards":1,"funding":2}`, string(data))

	var decoded CategoryCounts
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c, decoded)
}

func TestCategoryCounts_EmptyJSON(t *testing.T) {
	data, err := json.Marshal(CategoryCounts(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	var decoded CategoryCounts
	require.NoError(t, json.Unmarshal([]byte(`null`), &decoded))
	assert.Nil(t, decoded)
}

func TestSentimentCounts_Merge(t *testing.T) {
	a := SentimentCounts{Positive: 1}
	a.Add(SentimentNegative)
	a.Add(SentimentNeutral)
	a.Merge(SentimentCounts{Positive: 2, Neutral: 1})

	assert.Equal(t, SentimentCounts{Positive: 3, Negative: 1, Neutral: 2}, a)
}
