package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dotnetIka/histqa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "when did georgia declare independence?", NormalizeKey("When Did Georgia Declare Independence?"))
	assert.Equal(t, "question", NormalizeKey("  Question  "))
}

func TestAnswerCache_GetPut(t *testing.T) {
	c := New(10, 5*time.Minute)

	// Miss before any put
	_, ok := c.Get("When did Georgia declare independence?")
	assert.False(t, ok)

	result := models.AnswerResult{Answer: "26 May 1918", Confidence: 0.95}
	c.Put("When did Georgia declare independence?", result)

	got, ok := c.Get("When did Georgia declare independence?")
	require.True(t, ok)
	assert.Equal(t, result, got)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 0.5, stats.HitRate)
}

func TestAnswerCache_CaseFoldedLookup(t *testing.T) {
	c := New(10, 5*time.Minute)
	result := models.AnswerResult{Answer: "26 May 1918", Confidence: 0.95}

	c.Put("When did Georgia declare independence?", result)

	got, ok := c.Get("WHEN DID GEORGIA DECLARE INDEPENDENCE?")
	require.True(t, ok)
	assert.Equal(t, result, got)

	// One entry, not two, for the case variants
	assert.Equal(t, 1, c.Stats().Size)
}

func TestAnswerCache_Overwrite(t *testing.T) {
	c := New(10, 5*time.Minute)

	c.Put("question", models.AnswerResult{Answer: "first", Confidence: 0.5})
	c.Put("Question", models.AnswerResult{Answer: "second", Confidence: 0.9})

	got, ok := c.Get("question")
	require.True(t, ok)
	assert.Equal(t, "second", got.Answer)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestAnswerCache_TTLExpiration(t *testing.T) {
	c := New(10, 100*time.Millisecond)

	c.Put("question", models.AnswerResult{Answer: "a", Confidence: 0.9})

	_, ok := c.Get("question")
	assert.True(t, ok)

	time.Sleep(150 * time.Millisecond)

	_, ok = c.Get("question")
	assert.False(t, ok)

	// Expired entry was removed on read
	assert.Equal(t, 0, c.Stats().Size)
}

func TestAnswerCache_LRUEviction(t *testing.T) {
	c := New(3, 5*time.Minute)

	for i := 0; i < 4; i++ {
		c.Put(fmt.Sprintf("question %d", i), models.AnswerResult{Answer: fmt.Sprintf("answer %d", i), Confidence: 0.9})
	}

	// Exactly one entry evicted, never the just-inserted one
	assert.Equal(t, 3, c.Stats().Size)

	_, ok := c.Get("question 0")
	assert.False(t, ok)

	for i := 1; i < 4; i++ {
		_, ok := c.Get(fmt.Sprintf("question %d", i))
		assert.True(t, ok, "question %d should still be cached", i)
	}
}

func TestAnswerCache_LRUOrdering(t *testing.T) {
	c := New(3, 5*time.Minute)

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("question %d", i), models.AnswerResult{Answer: "a", Confidence: 0.9})
	}

	// Touch question 0 so question 1 becomes least recently used
	_, ok := c.Get("question 0")
	require.True(t, ok)

	c.Put("question 3", models.AnswerResult{Answer: "a", Confidence: 0.9})

	_, ok = c.Get("question 1")
	assert.False(t, ok)
	_, ok = c.Get("question 0")
	assert.True(t, ok)
}

func TestAnswerCache_CleanupExpired(t *testing.T) {
	c := New(10, 50*time.Millisecond)

	c.Put("old one", models.AnswerResult{Answer: "a", Confidence: 0.9})
	c.Put("old two", models.AnswerResult{Answer: "b", Confidence: 0.9})

	time.Sleep(80 * time.Millisecond)
	c.Put("fresh", models.AnswerResult{Answer: "c", Confidence: 0.9})

	removed := c.CleanupExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Stats().Size)

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestAnswerCache_Clear(t *testing.T) {
	c := New(10, 5*time.Minute)
	c.Put("question", models.AnswerResult{Answer: "a", Confidence: 0.9})

	c.Clear()

	assert.Equal(t, 0, c.Stats().Size)
	_, ok := c.Get("question")
	assert.False(t, ok)
}

func TestAnswerCache_ConcurrentAccess(t *testing.T) {
	c := New(64, 5*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("question %d", (n+j)%32)
				c.Put(key, models.AnswerResult{Answer: "a", Confidence: 0.9})
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Stats().Size, 64)
}
