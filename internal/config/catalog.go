package config

import "time"

// Catalog holds the selectable muscle groups, their exercise lists, the
// training locations, and the named season presets used by progress views.
// It is loaded once at startup and passed explicitly; nothing mutates it.
type Catalog struct {
	Groups    []ExerciseGroup `yaml:"groups"`
	Locations []string        `yaml:"locations"`
	Seasons   []Season        `yaml:"seasons"`
}

// ExerciseGroup is one muscle group and its configured exercises.
type ExerciseGroup struct {
	Name      string   `yaml:"name"`
	Exercises []string `yaml:"exercises"`
}

// Season is a named date range preset for filtering progress charts.
// An empty End means "through today".
type Season struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"` // YYYY-MM-DD
	End   string `yaml:"end"`   // YYYY-MM-DD, optional
}

// HasGroup reports whether name is a configured muscle group.
func (c Catalog) HasGroup(name string) bool {
	for _, g := range c.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// HasLocation reports whether name is a configured location.
func (c Catalog) HasLocation(name string) bool {
	for _, l := range c.Locations {
		if l == name {
			return true
		}
	}
	return false
}

// ExercisesFor returns the exercise list for a group, nil if unknown.
func (c Catalog) ExercisesFor(group string) []string {
	for _, g := range c.Groups {
		if g.Name == group {
			return g.Exercises
		}
	}
	return nil
}

// SeasonRange resolves a named season to a concrete [start, end] range.
// The second return reports whether the season exists.
func (c Catalog) SeasonRange(name string, now time.Time) (time.Time, time.Time, bool) {
	for _, s := range c.Seasons {
		if s.Name != name {
			continue
		}
		start, err := time.Parse("2006-01-02", s.Start)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		end := now
		if s.End != "" {
			end, err = time.Parse("2006-01-02", s.End)
			if err != nil {
				return time.Time{}, time.Time{}, false
			}
			end = end.Add(24 * time.Hour)
		}
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

// DefaultCatalog mirrors the catalog the original spreadsheet app shipped with.
func DefaultCatalog() Catalog {
	return Catalog{
		Groups: []ExerciseGroup{
			{Name: "push", Exercises: []string{
				"Bench Press", "Incline Bench Press", "Dips", "Overhead Press",
				"Lateral Raises", "Flyes", "Machine Chest Press", "Chest Fly",
			}},
			{Name: "pull", Exercises: []string{
				"Pull-Ups", "Lat Pulldowns", "Seated Pull", "T-Row", "Free Row",
				"Preacher Curls", "Spider Curl", "Muscle Ups", "Pendlay Row", "Shrug",
			}},
			{Name: "leg", Exercises: []string{
				"Squat", "Hack Squat", "Romanian Deadlifts", "Leg Extension",
				"Seated Leg Curl", "Hip Thrust", "Leg Curls", "Belgian Split Squat",
				"Calf Raises",
			}},
			{Name: "abs", Exercises: []string{
				"Crunch Machine", "Crunch Cables", "Lying Crunch", "L-Sits",
				"L-Pull", "Oblique Crunch",
			}},
			{Name: "upper", Exercises: []string{
				"Incline Bench Press", "T-Row", "Bench Press", "Lat Pulldowns",
				"Shoulder Press", "Preacher Curl", "Lateral Raises", "Tricep Extension",
			}},
			{Name: "arms", Exercises: []string{
				"Overhead Tricep Extension", "Shoulder Press", "Preacher Curl",
				"Lateral Raises", "Tricep Extension", "Rear Delt Fly", "Bayesian Curl",
			}},
			{Name: "PR", Exercises: []string{
				"Squat", "Bench Press", "Deadlift", "Pull-Ups", "Chin-Ups",
			}},
		},
		Locations: []string{"CIDE", "Libres", "SmartFit", "Otro"},
	}
}
