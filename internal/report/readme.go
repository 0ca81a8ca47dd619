package report

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/github"
	"github.com/theirongolddev/zone5/internal/model"
)

// ReadmeDateLayout is the timestamp written in place of "{{ date }}".
const ReadmeDateLayout = "2006-01-02 15:04 UTC"

// ReadmeValues are the figures substituted into a README.
type ReadmeValues struct {
	GitHub   github.WeeklyStats
	Activity model.ActivityTotals
	Now      time.Time
}

// SubstitutionResult reports which labels were not found in the document.
type SubstitutionResult struct {
	Replaced int
	Missing  []string
}

type substitution struct {
	label   string
	pattern *regexp.Regexp
	value   func(v ReadmeValues) string
}

// Counter labels replace only their digits; activity labels replace the
// rest of the line.
var substitutions = []substitution{
	{"Commits", regexp.MustCompile(`\*\*Commits\*\*: \d+`), func(v ReadmeValues) string {
		return "**Commits**: " + strconv.Itoa(v.GitHub.Commits)
	}},
	{"Pull Requests", regexp.MustCompile(`\*\*Pull Requests\*\*: \d+`), func(v ReadmeValues) string {
		return "**Pull Requests**: " + strconv.Itoa(v.GitHub.PullRequests)
	}},
	{"Issues Closed", regexp.MustCompile(`\*\*Issues Closed\*\*: \d+`), func(v ReadmeValues) string {
		return "**Issues Closed**: " + strconv.Itoa(v.GitHub.Issues)
	}},
	{"Code Reviews", regexp.MustCompile(`\*\*Code Reviews\*\*: \d+`), func(v ReadmeValues) string {
		return "**Code Reviews**: " + strconv.Itoa(v.GitHub.Reviews)
	}},
	{"Steps", regexp.MustCompile(`\*\*Steps\*\*: .*`), func(v ReadmeValues) string {
		return "**Steps**: " + cli.FormatNumber(v.Activity.Steps)
	}},
	{"Active Hours", regexp.MustCompile(`\*\*Active Hours\*\*: .*`), func(v ReadmeValues) string {
		return fmt.Sprintf("**Active Hours**: %dh", v.Activity.ActiveHours())
	}},
	{"Workout Sessions", regexp.MustCompile(`\*\*Workout Sessions\*\*: .*`), func(v ReadmeValues) string {
		return "**Workout Sessions**: " + strconv.Itoa(v.Activity.Workouts)
	}},
	{"{{ date }}", regexp.MustCompile(`\{\{ date \}\}`), func(v ReadmeValues) string {
		return v.Now.UTC().Format(ReadmeDateLayout)
	}},
}

// SubstituteReadme replaces every known label in doc. Each label is handled
// independently; a missing label is reported, not an error. Bytes outside
// the matched spans are preserved.
func SubstituteReadme(doc string, vals ReadmeValues) (string, SubstitutionResult) {
	var res SubstitutionResult
	for _, sub := range substitutions {
		if !sub.pattern.MatchString(doc) {
			res.Missing = append(res.Missing, sub.label)
			continue
		}
		doc = sub.pattern.ReplaceAllLiteralString(doc, sub.value(vals))
		res.Replaced++
	}
	return doc, res
}

// UpdateReadmeFile rewrites path in place with SubstituteReadme, keeping
// the file's permissions.
func UpdateReadmeFile(path string, vals ReadmeValues) (SubstitutionResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SubstitutionResult{}, fmt.Errorf("reading readme: %w", err)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config or flags
	if err != nil {
		return SubstitutionResult{}, fmt.Errorf("reading readme: %w", err)
	}

	out, res := SubstituteReadme(string(data), vals)
	if out == string(data) {
		return res, nil
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("writing readme: %w", err)
	}
	return res, nil
}
