package paths

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/afero"
)

var (
	seasonTitleRe = regexp.MustCompile(`(?i)^Season\s+(\d+)$`)
	bareNumberRe  = regexp.MustCompile(`^\d+$`)
)

// bestMatchCutoff is the maximum normalized edit distance accepted by
// BestMatch (0 is identical, 1 is entirely different).
const bestMatchCutoff = 0.4

// SeasonFolderNames returns the folder names accepted for a season title.
// Titles may be "Season N" or a bare number; the folders for season N may
// be named "Season N", "Season 0N", "N" or "0N". Season 0 additionally
// accepts "Specials". Returns ok=false for non-standard titles.
func SeasonFolderNames(seasonTitle string) ([]string, bool) {
	title := strings.TrimSpace(seasonTitle)

	if s := strings.ToLower(title); s == "specials" || s == "season 0" || s == "season 00" {
		return []string{"Specials", "Season 0", "Season 00", "0", "00"}, true
	}

	number := title
	if m := seasonTitleRe.FindStringSubmatch(title); m != nil {
		number = m[1]
	} else if !bareNumberRe.MatchString(title) {
		return nil, false
	}
	n, err := strconv.Atoi(number)
	if err != nil {
		return nil, false
	}
	if n == 0 {
		return []string{"Specials", "Season 0", "Season 00", "0", "00"}, true
	}

	return []string{
		fmt.Sprintf("Season %d", n),
		fmt.Sprintf("Season %02d", n),
		strconv.Itoa(n),
		fmt.Sprintf("%02d", n),
	}, true
}

// IsAllEpisodes reports whether a season title is Plex's synthetic
// "All episodes" entry, which has no folder on disk.
func IsAllEpisodes(seasonTitle string) bool {
	return strings.EqualFold(strings.TrimSpace(seasonTitle), "all episodes")
}

// ListSubfolders returns the names of the directories directly under path
func ListSubfolders(fs afero.Fs, path string) ([]string, error) {
	entries, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders in %s: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// MatchFolder finds the first folder whose name equals one of the candidate
// names, case-insensitively. Exact base-name comparison only, no substring
// or prefix matching.
func MatchFolder(folders, names []string) (string, bool) {
	for _, f := range folders {
		for _, n := range names {
			if strings.EqualFold(f, n) {
				return f, true
			}
		}
	}
	return "", false
}

// BestMatch returns the candidate closest to name by normalized edit
// distance, case-insensitively, or ok=false when nothing is close enough.
// Used as a fallback for album folders whose name drifted from the catalog
// title (punctuation, trailing dots, and so on).
func BestMatch(name string, candidates []string) (string, bool) {
	lower := strings.ToLower(name)

	best := ""
	bestRatio := 1.0
	for _, c := range candidates {
		cl := strings.ToLower(c)
		longest := max(len(lower), len(cl))
		if longest == 0 {
			continue
		}
		ratio := float64(levenshtein.ComputeDistance(lower, cl)) / float64(longest)
		if ratio < bestRatio {
			best = c
			bestRatio = ratio
		}
	}

	if best == "" || bestRatio > bestMatchCutoff {
		return "", false
	}
	return best, true
}
