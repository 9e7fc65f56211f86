// Package ingest places externally hosted episodes into the show and season
// hierarchy. Episode numbering is recovered from the source name of the
// asset, such as "The Office - S01E02 - Diversity Day.mp4" or
// "The Office/Season 1/02 - Diversity Day.mp4".
package ingest

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Reference is what could be recovered from a source name. Season and
// Episode are 0 when unknown.
type Reference struct {
	Source       string
	Show         string
	Season       int
	Episode      int
	EpisodeTitle string
	Title        string
}

// Placed reports whether the reference names a show and a season
func (r Reference) Placed() bool {
	return r.Show != "" && r.Season > 0
}

// Code formats the season and episode as S01E02
func (r Reference) Code() string {
	return fmt.Sprintf("S%02dE%02d", r.Season, r.Episode)
}

var (
	// "Show - S01E02", optionally followed by " - Episode Title"
	dashPattern = regexp.MustCompile(`(?i)^(.+?)\s*-\s*s(\d+)e(\d+)(?:\s*-\s*(.+))?`)
	// "Show.S01E02", "Show S01E02", "Show_S01E02"
	markerPattern = regexp.MustCompile(`(?i)^(.+?)[._ ]s(\d+)e(\d+)`)
	// "Show.1x02"
	crossPattern = regexp.MustCompile(`(?i)^(.+?)[._ ](\d+)x(\d+)`)

	seasonDirPattern = regexp.MustCompile(`(?i)^(?:season|s)[\s._]?(\d+)$`)
	// "02 - Title", "E02", "Episode 02"
	episodeFilePattern = regexp.MustCompile(`(?i)^(?:(\d+)\s*-\s*(.*)|e(\d+)|episode[\s._]?(\d+))`)

	spaces = regexp.MustCompile(`\s+`)
	// container extensions only; "Dr. Who" keeps its dot
	extPattern = regexp.MustCompile(`(?i)\.(?:mp4|m4v|mkv|mov|avi|wmv|webm|flv|mpe?g|ts)$`)
)

// Parse recovers show, season and episode from a source name. Both
// separators are accepted in paths. When nothing matches, the cleaned file
// name becomes the title.
func Parse(source string) Reference {
	ref := Reference{Source: source}

	slashed := strings.ReplaceAll(source, `\`, "/")
	dir, file := path.Split(slashed)
	name := trimExt(file)

	if parseName(name, &ref) || parseDirs(strings.Trim(dir, "/"), name, &ref) {
		ref.Title = ref.Show + " - " + ref.Code()
		if ref.EpisodeTitle != "" {
			ref.Title += " - " + ref.EpisodeTitle
		}
		return ref
	}

	ref.Title = clean(name)
	return ref
}

func parseName(name string, ref *Reference) bool {
	if m := dashPattern.FindStringSubmatch(name); m != nil {
		ref.Show, ref.Season, ref.Episode = clean(m[1]), atoi(m[2]), atoi(m[3])
		ref.EpisodeTitle = clean(m[4])
		return true
	}
	for _, p := range []*regexp.Regexp{markerPattern, crossPattern} {
		if m := p.FindStringSubmatch(name); m != nil {
			ref.Show, ref.Season, ref.Episode = clean(m[1]), atoi(m[2]), atoi(m[3])
			return true
		}
	}
	return false
}

// parseDirs handles "Show/Season 1/02 - Title" layouts
func parseDirs(dir, name string, ref *Reference) bool {
	parts := strings.Split(dir, "/")
	if dir == "" || len(parts) < 2 {
		return false
	}

	m := seasonDirPattern.FindStringSubmatch(parts[len(parts)-1])
	if m == nil {
		return false
	}
	em := episodeFilePattern.FindStringSubmatch(name)
	if em == nil {
		return false
	}

	ref.Show = clean(parts[len(parts)-2])
	ref.Season = atoi(m[1])
	for _, group := range []string{em[1], em[3], em[4]} {
		if group != "" {
			ref.Episode = atoi(group)
			break
		}
	}
	ref.EpisodeTitle = clean(em[2])
	return ref.Show != ""
}

func trimExt(file string) string {
	return extPattern.ReplaceAllString(file, "")
}

// clean turns dots and underscores into spaces and collapses whitespace
func clean(s string) string {
	s = strings.NewReplacer(".", " ", "_", " ").Replace(s)
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
