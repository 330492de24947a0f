package arena

import (
	"errors"
	"fmt"
	"leaderboard-sync/internal/leaderboard"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrEmptyTable means a page had a table but no row could be turned into a record.
	ErrEmptyTable = errors.New("Parsed 0 models from leaderboard table.")
	// ErrMalformedResponse means the page does not contain a table at all.
	ErrMalformedResponse = errors.New("No table in response")
	// ErrNoRatingParsed is matched by *NoRatingError.
	ErrNoRatingParsed = errors.New("no rating parsed")
)

// NoRatingError is returned when the rating cell of a row holds no number.
// A single bad row discards the whole table.
type NoRatingError struct {
	CellText string
}

func (e *NoRatingError) Error() string {
	return fmt.Sprintf("No rating number parsed from: %s", strconv.Quote(e.CellText))
}

func (e *NoRatingError) Is(target error) bool {
	return target == ErrNoRatingParsed
}

// ratingCellIndex is the column holding "<score> <uncertainty>".
const ratingCellIndex = 3

var (
	rowRegex    = regexp.MustCompile(`(?is)<tr\b[^>]*>.*?</tr>`)
	cellRegex   = regexp.MustCompile(`(?is)<td\b[^>]*>.*?</td>`)
	titleRegex  = regexp.MustCompile(`(?is)<a\b[^>]*\btitle=(?:"([^"]*)"|'([^']*)')`)
	tagRegex    = regexp.MustCompile(`(?s)<[^>]+>`)
	spaceRegex  = regexp.MustCompile(`[\s\p{Z}\x{85}]+`)
	numberRegex = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)
)

// HasTable reports whether `page` contains a table start tag, in any case.
func HasTable(page string) bool {
	return strings.Contains(strings.ToLower(page), "<table")
}

// stripTags removes markup from an html fragment and normalizes its whitespace.
func stripTags(fragment string) string {
	text := tagRegex.ReplaceAllString(fragment, " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(spaceRegex.ReplaceAllString(text, " "))
}

// parseRating returns the first number of `cellText` as the rating and the
// second, if any, as its uncertainty.
func parseRating(cellText string) (rating, uncertainty float64, err error) {
	numbers := numberRegex.FindAllString(cellText, -1)
	if len(numbers) == 0 {
		return 0, 0, &NoRatingError{CellText: cellText}
	}

	rating, err = strconv.ParseFloat(strings.ReplaceAll(numbers[0], ",", ""), 64)
	if err != nil {
		return 0, 0, err
	}
	if len(numbers) > 1 {
		uncertainty, err = strconv.ParseFloat(strings.ReplaceAll(numbers[1], ",", ""), 64)
		if err != nil {
			return 0, 0, err
		}
	}
	return rating, uncertainty, nil
}

// rowModelName returns the title of the first titled anchor in a row.
func rowModelName(row string) string {
	match := titleRegex.FindStringSubmatch(row)
	if match == nil {
		return ""
	}
	title := match[1]
	if title == "" {
		title = match[2]
	}
	return strings.TrimSpace(html.UnescapeString(title))
}

// ParseLeaderboardTable extracts model ratings from a leaderboard page.
//
// It scans the text for rows and cells instead of building a DOM, so broken
// markup elsewhere in the page does not matter. Rows with fewer than 4 cells
// or without a titled anchor are skipped. When several rows carry the same
// model name the last one wins.
func ParseLeaderboardTable(page string) (leaderboard.Category, error) {
	parsed := leaderboard.Category{}
	for _, row := range rowRegex.FindAllString(page, -1) {
		cells := cellRegex.FindAllString(row, -1)
		if len(cells) <= ratingCellIndex {
			continue
		}

		name := rowModelName(row)
		if name == "" {
			continue
		}

		rating, uncertainty, err := parseRating(stripTags(cells[ratingCellIndex]))
		if err != nil {
			return nil, err
		}
		parsed[name] = leaderboard.NewRecord(rating, uncertainty)
	}

	if len(parsed) == 0 {
		return nil, ErrEmptyTable
	}
	return parsed, nil
}
