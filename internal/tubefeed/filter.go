package tubefeed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type FilterReadStatus string

const (
	FilterReadStatusRead   FilterReadStatus = "read"
	FilterReadStatusUnread FilterReadStatus = "unread"
	FilterReadStatusAll    FilterReadStatus = "all"
)

type FilterOrderedBy string

const (
	FilterOrderedByCreatedAt FilterOrderedBy = "created_at"
)

type (
	// Filter is a named, reusable combination of subscriptions, read-status
	// scope, and criteria, producing a sorted/limited video feed.
	Filter struct {
		ID                 string           `db:"id"`
		Name               string           `db:"name"`
		OrderedBy          FilterOrderedBy  `db:"ordered_by"`
		ReverseOrder       bool             `db:"reverse_order"`
		ReadStatus         FilterReadStatus `db:"read_status"`
		ShowHiddenChannels bool             `db:"show_hidden_channels"`
		CreatedAt          time.Time        `db:"created_at"`
		UpdatedAt          time.Time        `db:"updated_at"`
	}

	// FilterGroup is an ordered sequence of filters evaluated together with
	// cross-filter dedup. The order is an explicit serialized id list, not
	// the join order.
	FilterGroup struct {
		ID               string    `db:"id"`
		Name             string    `db:"name"`
		OrderedFilterIDs string    `db:"ordered_filter_ids"` // JSON array of filter ids
		CreatedAt        time.Time `db:"created_at"`
		UpdatedAt        time.Time `db:"updated_at"`
	}

	// FilteredVideos is the transient result of evaluating one filter. It is
	// constructed fresh per evaluation and never persisted; group evaluation
	// may trim Videos in place.
	FilteredVideos struct {
		Filter                Filter  `json:"filter"`
		Videos                []Video `json:"videos"`
		VideosLimitedCount    int     `json:"videos_limited_count"`
		VideosNotLimitedCount int     `json:"videos_not_limited_count"`
		Limit                 int     `json:"limit"`
	}
)

// OrderedIDs decodes the group's serialized filter id list.
func (g FilterGroup) OrderedIDs() ([]string, error) {
	if g.OrderedFilterIDs == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(g.OrderedFilterIDs), &ids); err != nil {
		return nil, fmt.Errorf("error decoding ordered filter ids: %w", err)
	}
	return ids, nil
}

// OrderedFilters resolves the group's id sequence against its attached
// filter set. Attached filters missing from the list are appended in
// attachment order; listed ids that no longer resolve are skipped.
func (g FilterGroup) OrderedFilters(attached []Filter) []Filter {
	ids, err := g.OrderedIDs()
	if err != nil || len(ids) == 0 {
		return attached
	}

	byID := make(map[string]Filter, len(attached))
	for _, f := range attached {
		byID[f.ID] = f
	}

	ordered := make([]Filter, 0, len(attached))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			continue
		}
		ordered = append(ordered, f)
		seen[id] = true
	}
	for _, f := range attached {
		if !seen[f.ID] {
			ordered = append(ordered, f)
		}
	}

	return ordered
}

type CriteriaField string

const (
	CriteriaFieldCreated  CriteriaField = "created"
	CriteriaFieldDuration CriteriaField = "duration"
	CriteriaFieldKeyword  CriteriaField = "keyword"
	CriteriaFieldChannel  CriteriaField = "channel" // channel tag membership

	// channel_id and priority are part of the stored field enum but carry
	// no legality entry yet, so Validate rejects rules using them.
	CriteriaFieldChannelID CriteriaField = "channel_id"
	CriteriaFieldPriority  CriteriaField = "priority"
)

type CriteriaOperator string

const (
	CriteriaOperatorWithin         CriteriaOperator = "within"
	CriteriaOperatorShorterThan    CriteriaOperator = "shorter_than"
	CriteriaOperatorLongerThan     CriteriaOperator = "longer_than"
	CriteriaOperatorMustContain    CriteriaOperator = "must_contain"
	CriteriaOperatorMustNotContain CriteriaOperator = "must_not_contain"

	// Part of the stored operator enum but not accepted by any legality
	// entry yet.
	CriteriaOperatorAfter       CriteriaOperator = "after"
	CriteriaOperatorIs          CriteriaOperator = "is"
	CriteriaOperatorIsNot       CriteriaOperator = "is_not"
	CriteriaOperatorEqualTo     CriteriaOperator = "equal_to"
	CriteriaOperatorGreaterThan CriteriaOperator = "greater_than"
	CriteriaOperatorLessThan    CriteriaOperator = "less_than"
)

type CriteriaUnit string

const (
	CriteriaUnitSeconds CriteriaUnit = "seconds"
	CriteriaUnitMinutes CriteriaUnit = "minutes"
	CriteriaUnitHours   CriteriaUnit = "hours"
	CriteriaUnitDays    CriteriaUnit = "days"
	CriteriaUnitKeyword CriteriaUnit = "keyword"
	CriteriaUnitTag     CriteriaUnit = "tag"

	// Units for the channel_id and priority fields, likewise without a
	// legality entry.
	CriteriaUnitChannelID CriteriaUnit = "channel_id"
	CriteriaUnitPriority  CriteriaUnit = "priority"
)

// TagAny is the reserved criteria value meaning "any tag at all" for
// channel-tag criteria.
const TagAny = "ANY"

// Criteria is one typed rule (field/operator/value/unit) used to include or
// exclude videos during filter evaluation.
type Criteria struct {
	ID        string           `db:"id"`
	FilterID  string           `db:"filter_id"`
	Field     CriteriaField    `db:"field"`
	Operator  CriteriaOperator `db:"operator"`
	Value     string           `db:"value"`
	Unit      CriteriaUnit     `db:"unit_of_measure"`
	CreatedAt time.Time        `db:"created_at"`
}

// Name is the human-readable form of the rule, used by logs and listings.
func (c Criteria) Name() string {
	if c.Unit == "" {
		return fmt.Sprintf("%s %s %s", c.Field, c.Operator, c.Value)
	}
	return fmt.Sprintf("%s %s %s %s", c.Field, c.Operator, c.Value, c.Unit)
}

var timeUnits = []CriteriaUnit{
	CriteriaUnitSeconds,
	CriteriaUnitMinutes,
	CriteriaUnitHours,
	CriteriaUnitDays,
}

// criteriaRules is the data-driven legality table: for each field, the
// operators and units a rule may carry, and whether its value must parse as
// an integer.
var criteriaRules = map[CriteriaField]struct {
	Operators    []CriteriaOperator
	Units        []CriteriaUnit
	IntegerValue bool
}{
	CriteriaFieldCreated: {
		Operators:    []CriteriaOperator{CriteriaOperatorWithin},
		Units:        timeUnits,
		IntegerValue: true,
	},
	CriteriaFieldDuration: {
		Operators:    []CriteriaOperator{CriteriaOperatorShorterThan, CriteriaOperatorLongerThan},
		Units:        timeUnits,
		IntegerValue: true,
	},
	CriteriaFieldKeyword: {
		Operators: []CriteriaOperator{CriteriaOperatorMustContain, CriteriaOperatorMustNotContain},
		Units:     []CriteriaUnit{CriteriaUnitKeyword},
	},
	CriteriaFieldChannel: {
		Operators: []CriteriaOperator{CriteriaOperatorMustContain, CriteriaOperatorMustNotContain},
		Units:     []CriteriaUnit{CriteriaUnitTag},
	},
}

// Validate checks the operator/unit/value combination against the field's
// legality table. It is called at create/update time; evaluation assumes
// already-valid criteria.
func (c Criteria) Validate() error {
	rules, ok := criteriaRules[c.Field]
	if !ok {
		return fmt.Errorf("field must be one of 'created', 'duration', 'keyword' or 'channel', got %q", c.Field)
	}

	if !contains(rules.Operators, c.Operator) {
		return fmt.Errorf("operator %q is not valid for field %q (allowed: %v)", c.Operator, c.Field, rules.Operators)
	}
	if !contains(rules.Units, c.Unit) {
		return fmt.Errorf("unit %q is not valid for field %q (allowed: %v)", c.Unit, c.Field, rules.Units)
	}
	if rules.IntegerValue {
		if _, err := strconv.Atoi(c.Value); err != nil {
			return fmt.Errorf("value for field %q must be an integer, got %q", c.Field, c.Value)
		}
	}

	return nil
}

func contains[T comparable](haystack []T, needle T) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
