// ABOUTME: Read-only exercise catalog in the free-exercise-db JSON shape.
// ABOUTME: Workouts reference catalog ids but the catalog is never consulted on write.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed exercises.json
var builtin []byte

// Exercise is one catalog entry.
type Exercise struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Force            *string  `json:"force"`
	Level            string   `json:"level"`
	Mechanic         *string  `json:"mechanic"`
	Equipment        *string  `json:"equipment"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
	Category         string   `json:"category"`
	Images           []string `json:"images"`
}

// Catalog is an immutable list of exercises.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
}

// Builtin returns the catalog bundled with the binary.
func Builtin() (*Catalog, error) {
	return Parse(builtin)
}

// Load reads a catalog file. An empty path loads the built-in catalog.
func Load(file string) (*Catalog, error) {
	if file == "" {
		return Builtin()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of exercises.
func Parse(data []byte) (*Catalog, error) {
	var exercises []Exercise
	if err := json.Unmarshal(data, &exercises); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{exercises: exercises, byID: make(map[string]int, len(exercises))}
	for i, e := range exercises {
		if e.ID == "" {
			return nil, fmt.Errorf("parse catalog: exercise %d has no id", i)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate id %s", e.ID)
		}
		c.byID[e.ID] = i
	}
	return c, nil
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// All returns every exercise in file order.
func (c *Catalog) All() []Exercise {
	return append([]Exercise(nil), c.exercises...)
}

// ByID returns the exercise with the given id.
func (c *Catalog) ByID(id string) (Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i], true
}

// ByCategory returns exercises in the category. "all" returns everything.
func (c *Catalog) ByCategory(category string) []Exercise {
	if category == "all" {
		return c.All()
	}
	return c.filter(func(e Exercise) bool { return e.Category == category })
}

// ByMuscle returns exercises whose primary muscles contain muscle, ignoring case.
func (c *Catalog) ByMuscle(muscle string) []Exercise {
	m := strings.ToLower(muscle)
	return c.filter(func(e Exercise) bool { return anyContains(e.PrimaryMuscles, m) })
}

// Search matches term against name, muscles, equipment, and category. A blank
// term returns everything.
func (c *Catalog) Search(term string) []Exercise {
	if strings.TrimSpace(term) == "" {
		return c.All()
	}
	t := strings.ToLower(term)
	return c.filter(func(e Exercise) bool {
		return strings.Contains(strings.ToLower(e.Name), t) ||
			anyContains(e.PrimaryMuscles, t) ||
			anyContains(e.SecondaryMuscles, t) ||
			(e.Equipment != nil && strings.Contains(strings.ToLower(*e.Equipment), t)) ||
			strings.Contains(strings.ToLower(e.Category), t)
	})
}

// muscleGroups maps muscles to the body-region groups used for browsing.
var muscleGroups = map[string]string{
	"abdominals":  "waist",
	"obliques":    "waist",
	"biceps":      "upper-arms",
	"triceps":     "upper-arms",
	"forearms":    "lower-arms",
	"chest":       "chest",
	"lats":        "back",
	"middle back": "back",
	"lower back":  "back",
	"traps":       "back",
	"shoulders":   "shoulders",
	"quadriceps":  "upper-legs",
	"hamstrings":  "upper-legs",
	"glutes":      "upper-legs",
	"calves":      "lower-legs",
	"neck":        "neck",
}

// ByGroup returns exercises for a body-region group such as "back" or
// "upper-legs". "all" returns everything and "cardio" includes plyometrics.
func (c *Catalog) ByGroup(group string) []Exercise {
	switch group {
	case "all":
		return c.All()
	case "cardio":
		return c.filter(func(e Exercise) bool {
			return e.Category == "cardio" || e.Category == "plyometrics"
		})
	}

	var muscles []string
	for m, g := range muscleGroups {
		if g == group {
			muscles = append(muscles, m)
		}
	}
	return c.filter(func(e Exercise) bool {
		for _, pm := range e.PrimaryMuscles {
			for _, m := range muscles {
				if strings.Contains(strings.ToLower(pm), m) {
					return true
				}
			}
		}
		return false
	})
}

// Categories returns the sorted distinct categories.
func (c *Catalog) Categories() []string {
	return c.distinct(func(e Exercise) []string { return []string{e.Category} })
}

// EquipmentTypes returns the sorted distinct equipment names.
func (c *Catalog) EquipmentTypes() []string {
	return c.distinct(func(e Exercise) []string {
		if e.Equipment == nil {
			return nil
		}
		return []string{*e.Equipment}
	})
}

// MuscleGroups returns the sorted distinct primary and secondary muscles.
func (c *Catalog) MuscleGroups() []string {
	return c.distinct(func(e Exercise) []string {
		return append(append([]string(nil), e.PrimaryMuscles...), e.SecondaryMuscles...)
	})
}

// ImagePath returns the image path under root, or "" if the exercise has no
// image at index.
func ImagePath(root string, e Exercise, index int) string {
	if index < 0 || index >= len(e.Images) {
		return ""
	}
	return path.Join(root, e.Images[index])
}

func (c *Catalog) filter(keep func(Exercise) bool) []Exercise {
	var out []Exercise
	for _, e := range c.exercises {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) distinct(values func(Exercise) []string) []string {
	seen := make(map[string]struct{})
	for _, e := range c.exercises {
		for _, v := range values(e) {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func anyContains(values []string, lowerTerm string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lowerTerm) {
			return true
		}
	}
	return false
}
