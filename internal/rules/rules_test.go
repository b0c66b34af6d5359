package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubefeed/internal/tubefeed"
)

func durPtr(seconds int64) *int64 {
	return &seconds
}

func TestMatchesDuration(t *testing.T) {
	shorter := tubefeed.Criteria{
		Field:    tubefeed.CriteriaFieldDuration,
		Operator: tubefeed.CriteriaOperatorShorterThan,
		Value:    "10",
		Unit:     tubefeed.CriteriaUnitMinutes,
	}
	longer := tubefeed.Criteria{
		Field:    tubefeed.CriteriaFieldDuration,
		Operator: tubefeed.CriteriaOperatorLongerThan,
		Value:    "60",
		Unit:     tubefeed.CriteriaUnitSeconds,
	}

	// shorter_than is inclusive at the boundary.
	assert.True(t, MatchesDuration(shorter, tubefeed.Video{Duration: durPtr(600)}))
	assert.False(t, MatchesDuration(shorter, tubefeed.Video{Duration: durPtr(601)}))

	// longer_than is strict at the boundary.
	assert.False(t, MatchesDuration(longer, tubefeed.Video{Duration: durPtr(60)}))
	assert.True(t, MatchesDuration(longer, tubefeed.Video{Duration: durPtr(61)}))

	// Unknown duration always passes.
	assert.True(t, MatchesDuration(shorter, tubefeed.Video{}))
	assert.True(t, MatchesDuration(longer, tubefeed.Video{}))
}

func TestDurationBounds_Reduces(t *testing.T) {
	criterias := []tubefeed.Criteria{
		{Field: tubefeed.CriteriaFieldDuration, Operator: tubefeed.CriteriaOperatorLongerThan, Value: "30", Unit: tubefeed.CriteriaUnitSeconds},
		{Field: tubefeed.CriteriaFieldDuration, Operator: tubefeed.CriteriaOperatorLongerThan, Value: "1", Unit: tubefeed.CriteriaUnitMinutes},
		{Field: tubefeed.CriteriaFieldDuration, Operator: tubefeed.CriteriaOperatorShorterThan, Value: "10", Unit: tubefeed.CriteriaUnitMinutes},
		{Field: tubefeed.CriteriaFieldDuration, Operator: tubefeed.CriteriaOperatorShorterThan, Value: "1", Unit: tubefeed.CriteriaUnitHours},
		{Field: tubefeed.CriteriaFieldKeyword, Operator: tubefeed.CriteriaOperatorMustContain, Value: "go", Unit: tubefeed.CriteriaUnitKeyword},
	}

	lower, upper, hasLower, hasUpper := DurationBounds(criterias)
	require.True(t, hasLower)
	require.True(t, hasUpper)

	// Tightest bounds win: 60s lower, 600s upper.
	assert.Equal(t, int64(60), lower)
	assert.Equal(t, int64(600), upper)
}

func TestFilterVideos_DurationRange(t *testing.T) {
	criterias := []tubefeed.Criteria{
		{Field: tubefeed.CriteriaFieldDuration, Operator: tubefeed.CriteriaOperatorLongerThan, Value: "60", Unit: tubefeed.CriteriaUnitSeconds},
		{Field: tubefeed.CriteriaFieldDuration, Operator: tubefeed.CriteriaOperatorShorterThan, Value: "10", Unit: tubefeed.CriteriaUnitMinutes},
	}

	videos := []tubefeed.Video{
		{ID: "in-range", Duration: durPtr(300)},
		{ID: "too-short", Duration: durPtr(30)},
		{ID: "too-long", Duration: durPtr(700)},
		{ID: "unknown"},
	}

	kept := FilterVideos(videos, criterias, nil)
	require.Len(t, kept, 2)
	assert.Equal(t, "in-range", kept[0].ID)
	assert.Equal(t, "unknown", kept[1].ID)
}

func TestFilterVideos_TagRules(t *testing.T) {
	tagsByChannel := map[string][]string{
		"ch-music":  {"music"},
		"ch-news":   {"news"},
		"ch-bare":   {},
		"ch-tagged": {"anything"},
	}

	videos := []tubefeed.Video{
		{ID: "v-music", RemoteChannelID: "ch-music"},
		{ID: "v-news", RemoteChannelID: "ch-news"},
		{ID: "v-bare", RemoteChannelID: "ch-bare"},
		{ID: "v-tagged", RemoteChannelID: "ch-tagged"},
	}

	mustContain := []tubefeed.Criteria{
		{Field: tubefeed.CriteriaFieldChannel, Operator: tubefeed.CriteriaOperatorMustContain, Value: "music", Unit: tubefeed.CriteriaUnitTag},
	}
	kept := FilterVideos(videos, mustContain, tagsByChannel)
	require.Len(t, kept, 1)
	assert.Equal(t, "v-music", kept[0].ID)

	// "ANY" under must_not_contain: only channels with zero tags survive.
	noTags := []tubefeed.Criteria{
		{Field: tubefeed.CriteriaFieldChannel, Operator: tubefeed.CriteriaOperatorMustNotContain, Value: tubefeed.TagAny, Unit: tubefeed.CriteriaUnitTag},
	}
	kept = FilterVideos(videos, noTags, tagsByChannel)
	require.Len(t, kept, 1)
	assert.Equal(t, "v-bare", kept[0].ID)

	// "ANY" under must_contain: any tag at all is enough.
	anyTag := []tubefeed.Criteria{
		{Field: tubefeed.CriteriaFieldChannel, Operator: tubefeed.CriteriaOperatorMustContain, Value: tubefeed.TagAny, Unit: tubefeed.CriteriaUnitTag},
	}
	kept = FilterVideos(videos, anyTag, tagsByChannel)
	assert.Len(t, kept, 3)
}

func TestFilterVideos_KeywordRulesAreInert(t *testing.T) {
	// Keyword rules are validated and match individually, but do not
	// participate in list filtering.
	criterias := []tubefeed.Criteria{
		{Field: tubefeed.CriteriaFieldKeyword, Operator: tubefeed.CriteriaOperatorMustContain, Value: "golang", Unit: tubefeed.CriteriaUnitKeyword},
	}
	videos := []tubefeed.Video{
		{ID: "a", Title: "a golang talk"},
		{ID: "b", Title: "cooking show"},
	}

	assert.Len(t, FilterVideos(videos, criterias, nil), 2)
}

func TestMatchesKeyword_WholeWord(t *testing.T) {
	must := tubefeed.Criteria{
		Field:    tubefeed.CriteriaFieldKeyword,
		Operator: tubefeed.CriteriaOperatorMustContain,
		Value:    "go",
		Unit:     tubefeed.CriteriaUnitKeyword,
	}

	assert.True(t, MatchesKeyword(must, tubefeed.Video{Title: "Learning Go today"}))
	assert.True(t, MatchesKeyword(must, tubefeed.Video{Title: "learning GO today"}))
	// Substring inside another word does not count.
	assert.False(t, MatchesKeyword(must, tubefeed.Video{Title: "golang weekly"}))

	mustNot := must
	mustNot.Operator = tubefeed.CriteriaOperatorMustNotContain
	assert.False(t, MatchesKeyword(mustNot, tubefeed.Video{Title: "Learning Go today"}))
	assert.True(t, MatchesKeyword(mustNot, tubefeed.Video{Title: "golang weekly"}))
}

func TestMatchesCreated(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	within := tubefeed.Criteria{
		Field:    tubefeed.CriteriaFieldCreated,
		Operator: tubefeed.CriteriaOperatorWithin,
		Value:    "7",
		Unit:     tubefeed.CriteriaUnitDays,
	}

	assert.True(t, MatchesCreated(within, tubefeed.Video{CreatedAt: now.Add(-24 * time.Hour)}, now))
	assert.False(t, MatchesCreated(within, tubefeed.Video{CreatedAt: now.Add(-8 * 24 * time.Hour)}, now))
}
