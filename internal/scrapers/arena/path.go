package arena

import (
	"fmt"
	"leaderboard-sync/internal/leaderboard"
)

// noStyleControlSuffix selects the raw ranking of a style-controlled
// category. If arena.ai renames it, pages stop containing a table and every
// affected category is skipped.
const noStyleControlSuffix = "-no-style-control"

// LeaderboardPath returns the path of a category's leaderboard page.
func LeaderboardPath(modality, slug string, styleControl leaderboard.StyleControl) string {
	path := fmt.Sprintf("/leaderboard/%s/%s", modality, slug)
	if styleControl == leaderboard.StyleControlOff {
		return path + noStyleControlSuffix
	}
	return path
}
