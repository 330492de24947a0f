package leaderboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is a float that serializes the way the published leaderboard files
// carry their numbers, integral values keep a trailing ".0".
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported score value: %v", f)
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}
	return []byte(out), nil
}

// Record is the score of a single model within a category. RatingQ975 and
// RatingQ025 are the upper and lower ends of the confidence interval.
type Record struct {
	Rating     Score `json:"rating"`
	RatingQ975 Score `json:"rating_q975"`
	RatingQ025 Score `json:"rating_q025"`
}

// NewRecord builds a record from a score and its uncertainty.
func NewRecord(rating, uncertainty float64) Record {
	return Record{
		Rating:     Score(rating),
		RatingQ975: Score(rating + uncertainty),
		RatingQ025: Score(rating - uncertainty),
	}
}

// Category maps a model's display name to its record.
type Category map[string]Record

// Dataset is the content of one leaderboard file, keyed by category.
//
// Entries stay raw JSON so that categories which are not refreshed are
// written back exactly as they were read.
type Dataset map[string]json.RawMessage

// Set replaces the entry of `key` with `category`.
func (d Dataset) Set(key string, category Category) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(category)
	if err != nil {
		return fmt.Errorf("encode category %s: %w", key, err)
	}
	d[key] = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return nil
}

// Category decodes the entry of `key`, ok is false if there is none.
func (d Dataset) Category(key string) (category Category, ok bool, err error) {
	raw, ok := d[key]
	if !ok {
		return nil, false, nil
	}
	err = json.Unmarshal(raw, &category)
	if err != nil {
		return nil, true, fmt.Errorf("decode category %s: %w", key, err)
	}
	return category, true, nil
}

// StyleControl selects between the style-controlled ranking of a category
// and its raw counterpart.
type StyleControl int

const (
	// StyleControlUnset is used by leaderboards that only have one view.
	StyleControlUnset StyleControl = iota
	StyleControlOn
	StyleControlOff
)

func (s StyleControl) String() string {
	switch s {
	case StyleControlOn:
		return "on"
	case StyleControlOff:
		return "off"
	default:
		return "unset"
	}
}

type CategoryMapping struct {
	// Key is the category key inside the leaderboard file.
	Key string
	// Slug is the path segment of the category on arena.ai.
	Slug string
}

// FileSpec describes one leaderboard file and where its categories come from.
type FileSpec struct {
	Filename     string
	Modality     string
	Categories   []CategoryMapping
	StyleControl StyleControl
}
