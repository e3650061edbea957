package filter

import (
	"testing"

	"github.com/gwalsh/redsift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(title, body string, score int) domain.Post {
	return domain.Post{Title: title, Body: body, Score: score}
}

// TestApply_KeywordInvariant verifies every kept post hits at least one keyword.
func TestApply_KeywordInvariant(t *testing.T) {
	posts := []domain.Post{
		post("Need help with my schedule", "", 10),
		post("Totally unrelated", "nothing here", 50),
		post("random title", "I am so confused about enrollment", 3),
		post("HELP", "", 0),
	}
	keywords := []string{"help", "confused"}

	kept := Apply(posts, Options{Keywords: keywords})

	require.Len(t, kept, 3)
	for _, p := range kept {
		assert.NotEmpty(t, p.KeywordsHit, "kept post %q must hit a keyword", p.Title)
	}
}

// TestApply_CaseInsensitive verifies matching ignores case on both sides.
func TestApply_CaseInsensitive(t *testing.T) {
	posts := []domain.Post{post("ZERO-DAY Found", "", 1)}

	kept := Apply(posts, Options{Keywords: []string{"zero-day"}})
	require.Len(t, kept, 1)
	assert.Equal(t, []string{"zero-day"}, kept[0].KeywordsHit)

	kept = Apply(posts, Options{Keywords: []string{"ZERO-DAY"}})
	require.Len(t, kept, 1)
}

// TestApply_BodyMatch verifies the body is searched, not just the title.
func TestApply_BodyMatch(t *testing.T) {
	posts := []domain.Post{post("no match here", "deep in the selftext: question", 1)}

	kept := Apply(posts, Options{Keywords: []string{"question"}})
	require.Len(t, kept, 1)
}

// TestApply_MinScore verifies the score cut applies before keyword matching.
func TestApply_MinScore(t *testing.T) {
	posts := []domain.Post{
		post("help me", "", 5),
		post("help me too", "", 100),
	}

	kept := Apply(posts, Options{Keywords: []string{"help"}, MinScore: 50})
	require.Len(t, kept, 1)
	assert.Equal(t, "help me too", kept[0].Title)
}

// TestApply_EmptyKeywords verifies no keywords keeps everything.
func TestApply_EmptyKeywords(t *testing.T) {
	posts := []domain.Post{
		post("a", "", 1),
		post("b", "", 2),
	}

	kept := Apply(posts, Options{})
	require.Len(t, kept, 2)
	assert.Empty(t, kept[0].KeywordsHit)
}

// TestApply_MultipleHits verifies all matching keywords are recorded in order.
func TestApply_MultipleHits(t *testing.T) {
	posts := []domain.Post{post("help, I am confused", "", 1)}

	kept := Apply(posts, Options{Keywords: []string{"confused", "help", "absent"}})
	require.Len(t, kept, 1)
	assert.Equal(t, []string{"confused", "help"}, kept[0].KeywordsHit)
}

// TestApply_PreservesInput verifies the input slice is untouched.
func TestApply_PreservesInput(t *testing.T) {
	posts := []domain.Post{post("help", "", 1)}

	_ = Apply(posts, Options{Keywords: []string{"help"}})
	assert.Nil(t, posts[0].KeywordsHit)
}
