package tubefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoID_Deterministic(t *testing.T) {
	a := VideoID("https://www.youtube.com/watch?v=abc123")
	b := VideoID("https://www.youtube.com/watch?v=abc123")
	assert.Equal(t, a, b)

	c := VideoID("https://www.youtube.com/watch?v=xyz789")
	assert.NotEqual(t, a, c)
}

func TestSubscriptionID_CollidesPerOwner(t *testing.T) {
	a := SubscriptionID("Youtube", "YoutubeSubscription", "alice")
	b := SubscriptionID("Youtube", "YoutubeSubscription", "alice")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, SubscriptionID("Youtube", "YoutubeSubscription", "bob"))
	assert.NotEqual(t, a, SubscriptionID("Youtube", "YoutubeChannel", "alice"))
}

func TestCriteriaValidate(t *testing.T) {
	for name, tc := range map[string]struct {
		criteria Criteria
		wantErr  bool
	}{
		"valid duration": {
			criteria: Criteria{Field: CriteriaFieldDuration, Operator: CriteriaOperatorShorterThan, Value: "10", Unit: CriteriaUnitMinutes},
		},
		"valid keyword": {
			criteria: Criteria{Field: CriteriaFieldKeyword, Operator: CriteriaOperatorMustNotContain, Value: "sponsored", Unit: CriteriaUnitKeyword},
		},
		"valid channel tag": {
			criteria: Criteria{Field: CriteriaFieldChannel, Operator: CriteriaOperatorMustContain, Value: "music", Unit: CriteriaUnitTag},
		},
		"valid created window": {
			criteria: Criteria{Field: CriteriaFieldCreated, Operator: CriteriaOperatorWithin, Value: "7", Unit: CriteriaUnitDays},
		},
		"unknown field": {
			criteria: Criteria{Field: "views", Operator: CriteriaOperatorWithin, Value: "7", Unit: CriteriaUnitDays},
			wantErr:  true,
		},
		"operator outside field": {
			criteria: Criteria{Field: CriteriaFieldDuration, Operator: CriteriaOperatorMustContain, Value: "10", Unit: CriteriaUnitMinutes},
			wantErr:  true,
		},
		"unit outside field": {
			criteria: Criteria{Field: CriteriaFieldDuration, Operator: CriteriaOperatorShorterThan, Value: "10", Unit: CriteriaUnitKeyword},
			wantErr:  true,
		},
		"non integer value": {
			criteria: Criteria{Field: CriteriaFieldDuration, Operator: CriteriaOperatorShorterThan, Value: "ten", Unit: CriteriaUnitMinutes},
			wantErr:  true,
		},
		"channel id field has no legality entry": {
			criteria: Criteria{Field: CriteriaFieldChannelID, Operator: CriteriaOperatorIs, Value: "UC123", Unit: CriteriaUnitChannelID},
			wantErr:  true,
		},
		"priority field has no legality entry": {
			criteria: Criteria{Field: CriteriaFieldPriority, Operator: CriteriaOperatorGreaterThan, Value: "3", Unit: CriteriaUnitPriority},
			wantErr:  true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.criteria.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFilterGroup_OrderedFilters(t *testing.T) {
	attached := []Filter{
		{ID: "f1", Name: "one"},
		{ID: "f2", Name: "two"},
		{ID: "f3", Name: "three"},
	}

	g := FilterGroup{OrderedFilterIDs: `["f3", "gone", "f1"]`}
	ordered := g.OrderedFilters(attached)

	require.Len(t, ordered, 3)
	// Stale "gone" is skipped, unlisted f2 is appended last.
	assert.Equal(t, "f3", ordered[0].ID)
	assert.Equal(t, "f1", ordered[1].ID)
	assert.Equal(t, "f2", ordered[2].ID)
}

func TestFilterGroup_OrderedFilters_NoList(t *testing.T) {
	attached := []Filter{{ID: "f1"}, {ID: "f2"}}

	g := FilterGroup{OrderedFilterIDs: ""}
	assert.Equal(t, attached, g.OrderedFilters(attached))
}
