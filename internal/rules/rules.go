// Package rules evaluates criteria against videos. Every function is pure:
// rules in, verdict out, no storage access. Criteria are assumed to have
// passed validation at creation time.
package rules

import (
	"regexp"
	"strconv"
	"time"

	"tubefeed/internal/tubefeed"
)

// unitSeconds converts a rule's integer value and unit to seconds.
func unitSeconds(value int, unit tubefeed.CriteriaUnit) int64 {
	switch unit {
	case tubefeed.CriteriaUnitMinutes:
		return int64(value) * 60
	case tubefeed.CriteriaUnitHours:
		return int64(value) * 60 * 60
	case tubefeed.CriteriaUnitDays:
		return int64(value) * 60 * 60 * 24
	default:
		return int64(value)
	}
}

// MatchesCreated reports whether the video was created within the rule's
// time window, measured back from now.
func MatchesCreated(c tubefeed.Criteria, v tubefeed.Video, now time.Time) bool {
	value, _ := strconv.Atoi(c.Value)
	window := time.Duration(unitSeconds(value, c.Unit)) * time.Second

	return !v.CreatedAt.Before(now.Add(-window))
}

// MatchesKeyword reports whether the video title satisfies the rule's
// whole-word, case-insensitive containment. Only the title is consulted.
func MatchesKeyword(c tubefeed.Criteria, v tubefeed.Video) bool {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(c.Value) + `\b`)
	found := re.MatchString(v.Title)

	if c.Operator == tubefeed.CriteriaOperatorMustNotContain {
		return !found
	}
	return found
}

// MatchesDuration applies a single duration rule. A video with unknown
// duration always passes: it is treated as "unknown, don't exclude".
func MatchesDuration(c tubefeed.Criteria, v tubefeed.Video) bool {
	if v.Duration == nil {
		return true
	}

	value, _ := strconv.Atoi(c.Value)
	seconds := unitSeconds(value, c.Unit)

	if c.Operator == tubefeed.CriteriaOperatorShorterThan {
		return *v.Duration <= seconds
	}
	return *v.Duration > seconds
}

// DurationBounds reduces a rule set's duration rules to one inclusive
// range: the maximum of the longer_than lower bounds and the minimum of the
// shorter_than upper bounds.
func DurationBounds(criterias []tubefeed.Criteria) (lower, upper int64, hasLower, hasUpper bool) {
	for _, c := range criterias {
		if c.Field != tubefeed.CriteriaFieldDuration {
			continue
		}

		value, _ := strconv.Atoi(c.Value)
		seconds := unitSeconds(value, c.Unit)

		switch c.Operator {
		case tubefeed.CriteriaOperatorLongerThan:
			if !hasLower || seconds > lower {
				lower = seconds
			}
			hasLower = true
		case tubefeed.CriteriaOperatorShorterThan:
			if !hasUpper || seconds < upper {
				upper = seconds
			}
			hasUpper = true
		}
	}

	return lower, upper, hasLower, hasUpper
}

// withinBounds applies the reduced duration range to one video. Unknown
// duration always passes regardless of the rules present.
func withinBounds(v tubefeed.Video, lower, upper int64, hasLower, hasUpper bool) bool {
	if v.Duration == nil {
		return true
	}
	if hasLower && *v.Duration <= lower {
		return false
	}
	if hasUpper && *v.Duration > upper {
		return false
	}
	return true
}

// matchesTagRule applies one channel-tag rule to the tag names of the
// video's channel. The sentinel value "ANY" means "has at least one tag":
// under must_not_contain it excludes every tagged channel while zero-tag
// channels pass.
func matchesTagRule(c tubefeed.Criteria, tags []string) bool {
	has := func(name string) bool {
		for _, t := range tags {
			if t == name {
				return true
			}
		}
		return false
	}

	var found bool
	if c.Value == tubefeed.TagAny {
		found = len(tags) > 0
	} else {
		found = has(c.Value)
	}

	if c.Operator == tubefeed.CriteriaOperatorMustNotContain {
		return !found
	}
	return found
}

// FilterVideos applies a filter's rule set to a video list and returns the
// survivors in their original order. Only channel-tag and duration rules
// participate here; created and keyword rules are modeled and validated but
// not yet wired into list filtering.
func FilterVideos(videos []tubefeed.Video, criterias []tubefeed.Criteria, tagsByChannel map[string][]string) []tubefeed.Video {
	if len(criterias) == 0 {
		return videos
	}

	lower, upper, hasLower, hasUpper := DurationBounds(criterias)

	var tagRules []tubefeed.Criteria
	for _, c := range criterias {
		if c.Field == tubefeed.CriteriaFieldChannel {
			tagRules = append(tagRules, c)
		}
	}

	kept := make([]tubefeed.Video, 0, len(videos))
outer:
	for _, v := range videos {
		if !withinBounds(v, lower, upper, hasLower, hasUpper) {
			continue
		}
		for _, c := range tagRules {
			if !matchesTagRule(c, tagsByChannel[v.RemoteChannelID]) {
				continue outer
			}
		}
		kept = append(kept, v)
	}

	return kept
}
