package progress

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vovakirdan/speedy-highway/internal/config"
)

type fieldKind int

const (
	kindArray fieldKind = iota
	kindObject
	kindInt
	kindNullableString
)

func (k fieldKind) String() string {
	switch k {
	case kindArray:
		return "array"
	case kindObject:
		return "object"
	case kindInt:
		return "int"
	case kindNullableString:
		return "string or null"
	}
	return "unknown"
}

type field struct {
	key  string
	kind fieldKind
}

// schema lists the required top-level keys in file order.
var schema = []field{
	{"high_scores", kindArray},
	{"difficulty", kindInt},
	{"selected_car", kindInt},
	{"unlocked_cars", kindArray},
	{"achievements", kindObject},
	{"games_played", kindInt},
	{"total_playtime", kindInt},
	{"best_streak", kindInt},
	{"last_daily_challenge", kindNullableString},
	{"daily_challenge", kindObject},
	{"highest_difficulty_reached", kindInt},
	{"best_scores_per_difficulty", kindArray},
}

var highScoreKeys = []string{"date", "difficulty", "score", "survival_time"}

// KnownKeys returns the top-level keys the record defines.
func KnownKeys() []string {
	keys := make([]string, len(schema))
	for i, f := range schema {
		keys[i] = f.key
	}
	return keys
}

// Validate checks raw JSON against the record schema and returns
// human-readable violations. An empty result means the data is valid.
func Validate(raw []byte) []string {
	if !gjson.ValidBytes(raw) {
		return []string{"record is not valid JSON"}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return []string{"record must be an object"}
	}

	var errs []string
	for _, f := range schema {
		val := root.Get(f.key)
		if !val.Exists() {
			errs = append(errs, fmt.Sprintf("Missing required key: '%s'", f.key))
			continue
		}
		if !matches(val, f.kind) {
			errs = append(errs, fmt.Sprintf("'%s' must be %s, got %s", f.key, f.kind, typeName(val)))
		}
	}

	if hs := root.Get("high_scores"); hs.IsArray() {
		for i, entry := range hs.Array() {
			if !entry.IsObject() {
				errs = append(errs, fmt.Sprintf("high_scores[%d] must be an object", i))
				continue
			}
			var missing []string
			for _, k := range highScoreKeys {
				if !entry.Get(k).Exists() {
					missing = append(missing, k)
				}
			}
			if len(missing) > 0 {
				errs = append(errs, fmt.Sprintf("high_scores[%d] missing keys: %s", i, strings.Join(missing, ", ")))
			}
			if score := entry.Get("score"); score.Exists() && score.Type != gjson.Number {
				errs = append(errs, fmt.Sprintf("high_scores[%d].score must be numeric", i))
			}
		}
	}

	if best := root.Get("best_scores_per_difficulty"); best.IsArray() && len(best.Array()) != config.DifficultyCount {
		errs = append(errs, fmt.Sprintf("best_scores_per_difficulty must have exactly %d elements", config.DifficultyCount))
	}

	return errs
}

// HasViolation reports whether any violation mentions key.
func HasViolation(violations []string, key string) bool {
	return slices.ContainsFunc(violations, func(v string) bool {
		return strings.Contains(v, "'"+key+"'")
	})
}

func matches(v gjson.Result, k fieldKind) bool {
	switch k {
	case kindArray:
		return v.IsArray()
	case kindObject:
		return v.IsObject()
	case kindInt:
		return v.Type == gjson.Number && v.Num == math.Trunc(v.Num)
	case kindNullableString:
		return v.Type == gjson.Null || v.Type == gjson.String
	}
	return false
}

func typeName(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "bool"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if v.IsArray() {
		return "array"
	}
	return "object"
}
