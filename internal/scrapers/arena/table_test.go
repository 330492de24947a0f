package arena

import (
	"errors"
	"fmt"
	"leaderboard-sync/internal/leaderboard"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func row(cells ...string) string {
	var out strings.Builder
	out.WriteString("<tr>")
	for _, c := range cells {
		out.WriteString("<td>")
		out.WriteString(c)
		out.WriteString("</td>")
	}
	out.WriteString("</tr>")
	return out.String()
}

func page(rows ...string) string {
	return "<html><body><table><thead><tr><th>Rank</th><th>Model</th><th>Votes</th><th>Score</th></tr></thead><tbody>" +
		strings.Join(rows, "\n") +
		"</tbody></table></body></html>"
}

func TestParseLeaderboardTable(t *testing.T) {
	table := []struct {
		name     string
		input    string
		expected leaderboard.Category
	}{
		{
			name:  "score with uncertainty",
			input: `<tr><td>1</td><td>X</td><td>1200</td><td><a title="Model A">A</a>1200±15</td></tr>`,
			expected: leaderboard.Category{
				"Model A": {Rating: 1200, RatingQ975: 1215, RatingQ025: 1185},
			},
		},
		{
			name:  "score without uncertainty",
			input: page(row("1", `<a href="/m/b" title="Model B">B</a>`, "3,400", "1,310")),
			expected: leaderboard.Category{
				"Model B": {Rating: 1310, RatingQ975: 1310, RatingQ025: 1310},
			},
		},
		{
			name: "attributes, case and nested markup",
			input: `<TR class="row" data-id=7>
				<TD>1</TD>
				<TD><div><A class='link' TITLE='Model &amp; Co'>M</A></div></TD>
				<TD>12,345</TD>
				<TD><span class="score">1,250.5</span>
					<span class="ci">&plusmn;4.25</span></TD>
			</TR>`,
			expected: leaderboard.Category{
				"Model & Co": {Rating: 1250.5, RatingQ975: 1254.75, RatingQ025: 1246.25},
			},
		},
		{
			name: "rows without enough cells or without a title are skipped",
			input: page(
				row("1", `<a title="Short">S</a>`, "1000"),
				row("2", `<a href="/x">No title</a>`, "10", "1100"),
				row("3", `<a title="   ">Blank</a>`, "10", "1100"),
				row("4", `<a title="Kept">K</a>`, "10", "1000 +7/-7"),
			),
			expected: leaderboard.Category{
				"Kept": {Rating: 1000, RatingQ975: 1007, RatingQ025: 993},
			},
		},
		{
			name: "the first titled anchor names the row",
			input: page(
				row("1", `<a title="First">F</a> <a title="Second">S</a>`, "10", "900 5"),
			),
			expected: leaderboard.Category{
				"First": {Rating: 900, RatingQ975: 905, RatingQ025: 895},
			},
		},
		{
			name: "later rows win on duplicate names",
			input: page(
				row("1", `<a title="Dup">D</a>`, "10", "1300 ± 10"),
				row("2", `<a title="Other">O</a>`, "10", "1200 ± 5"),
				row("3", `<a title="Dup">D</a>`, "10", "1100 ± 2"),
			),
			expected: leaderboard.Category{
				"Dup":   {Rating: 1100, RatingQ975: 1102, RatingQ025: 1098},
				"Other": {Rating: 1200, RatingQ975: 1205, RatingQ025: 1195},
			},
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			result, err := ParseLeaderboardTable(test.input)
			require.NoError(t, err)
			if diff := cmp.Diff(test.expected, result); diff != "" {
				t.Fatalf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLeaderboardTableEmpty(t *testing.T) {
	inputs := []string{
		"",
		"<table></table>",
		page(),
		page(row("1", `<a title="A">A</a>`, "10")),
	}
	for _, input := range inputs {
		_, err := ParseLeaderboardTable(input)
		require.ErrorIs(t, err, ErrEmptyTable)
		require.Equal(t, "Parsed 0 models from leaderboard table.", err.Error())
	}
}

func TestParseLeaderboardTableNoRating(t *testing.T) {
	input := page(
		row("1", `<a title="Good">G</a>`, "10", "1200 ± 3"),
		row("2", `<a title="Bad">B</a>`, "10", "<b>N/A</b>&nbsp;&nbsp;pending"),
	)

	result, err := ParseLeaderboardTable(input)
	require.Nil(t, result)
	require.ErrorIs(t, err, ErrNoRatingParsed)

	var noRating *NoRatingError
	require.True(t, errors.As(err, &noRating))
	require.Equal(t, "N/A pending", noRating.CellText)
	require.Equal(t, `No rating number parsed from: "N/A pending"`, err.Error())
}

func TestParseLeaderboardTableBounds(t *testing.T) {
	var rows []string
	for i := 0; i < 50; i++ {
		rows = append(rows, row(
			fmt.Sprint(i+1),
			fmt.Sprintf(`<a title="model-%d">m</a>`, i),
			"1,000",
			fmt.Sprintf("%d.%d ± %d.%d", 900+i*7, i%10, i%13, i%3),
		))
	}

	result, err := ParseLeaderboardTable(page(rows...))
	require.NoError(t, err)
	require.Len(t, result, 50)
	for name, record := range result {
		require.LessOrEqual(t, record.RatingQ025, record.Rating, name)
		require.LessOrEqual(t, record.Rating, record.RatingQ975, name)
	}
}

func TestHasTable(t *testing.T) {
	require.True(t, HasTable(`<div><table class="x">`))
	require.True(t, HasTable(`<TABLE>`))
	require.False(t, HasTable(`<html><body>Rate limited</body></html>`))
}

func TestLeaderboardPath(t *testing.T) {
	table := []struct {
		modality     string
		slug         string
		styleControl leaderboard.StyleControl
		expected     string
	}{
		{"text-to-image", "overall", leaderboard.StyleControlUnset, "/leaderboard/text-to-image/overall"},
		{"text", "coding", leaderboard.StyleControlOn, "/leaderboard/text/coding"},
		{"text", "coding", leaderboard.StyleControlOff, "/leaderboard/text/coding-no-style-control"},
		{"vision", "ocr", leaderboard.StyleControlOff, "/leaderboard/vision/ocr-no-style-control"},
	}
	for _, test := range table {
		require.Equal(t, test.expected, LeaderboardPath(test.modality, test.slug, test.styleControl))
	}
}
