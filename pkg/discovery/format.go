package discovery

import (
	"fmt"
	"math"
)

// Match score colors, one per band
const (
	ColorExcellent = "#10B981"
	ColorGood      = "#3B82F6"
	ColorFair      = "#F59E0B"
	ColorPoor      = "#EF4444"
)

type scoreBand struct {
	min   float64
	label string
	color string
}

// ordered high to low; the first band whose min is reached wins
var scoreBands = []scoreBand{
	{min: 80, label: "Excellent", color: ColorExcellent},
	{min: 60, label: "Good", color: ColorGood},
	{min: 40, label: "Fair", color: ColorFair},
}

func bandFor(score float64) (string, string) {
	for _, b := range scoreBands {
		if score >= b.min {
			return b.label, b.color
		}
	}
	return "Poor", ColorPoor
}

// FormatMatchScore renders a score as e.g. "Excellent (85%)"
func FormatMatchScore(score float64) string {
	label, _ := bandFor(score)
	return fmt.Sprintf("%s (%d%%)", label, int(math.Round(score)))
}

// MatchScoreColor returns the hex color for the score's band
func MatchScoreColor(score float64) string {
	_, color := bandFor(score)
	return color
}

// DefaultUserPreferences returns the preference set used to seed new users.
// Every call returns a fresh value.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Skills:                []string{"JavaScript", "TypeScript", "React", "Node.js", "Python"},
		ExperienceLevel:       "mid",
		YearsOfExperience:     3,
		DesiredRoles:          []string{"Software Engineer", "Full Stack Developer", "Frontend Developer"},
		PreferredLocations:    []string{"Remote", "San Francisco", "New York"},
		JobTypes:              []string{"full-time"},
		SalaryMin:             80000,
		SalaryMax:             150000,
		SalaryCurrency:        "USD",
		CompanySizePreference: []string{"startup", "medium"},
		IndustryPreference:    []string{"Technology", "Software"},

		SkillWeight:      0.35,
		ExperienceWeight: 0.25,
		LocationWeight:   0.15,
		SalaryWeight:     0.15,
		CompanyWeight:    0.10,
	}
}
