package skills

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultWeight = 1.0

//go:embed inventory.yaml
var defaultInventory []byte

// Skill is one entry of the canonical vocabulary.
type Skill struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	// Weighted is set when the entry declares its own weight. Only weighted
	// skills take part in keyword coverage scoring.
	Weighted bool `yaml:"-"`
	// Hint is the remediation line of the first roadmap rule matching Name.
	Hint string `yaml:"-"`
}

// Rule maps a keyword contained in a skill name to a remediation hint.
type Rule struct {
	Keyword string `yaml:"keyword"`
	Hint    string `yaml:"hint"`
}

type inventoryFile struct {
	Skills  []Skill `yaml:"skills"`
	Roadmap []Rule  `yaml:"roadmap"`
}

// Inventory is immutable reference data loaded once at startup and shared
// across requests.
type Inventory struct {
	skills []Skill
	index  map[string]int
	rules  []Rule
}

// Default returns the inventory embedded in the binary.
func Default() *Inventory {
	inv, err := Parse(defaultInventory)
	if err != nil {
		panic(fmt.Sprintf("embedded skill inventory is invalid: %v", err))
	}
	return inv
}

// Load reads an inventory from a YAML file. An empty path yields Default().
func Load(path string) (*Inventory, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill inventory: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Inventory, error) {
	var file inventoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse skill inventory: %w", err)
	}

	if len(file.Skills) == 0 {
		return nil, fmt.Errorf("skill inventory has no skills")
	}

	return New(file.Skills, file.Roadmap), nil
}

// New normalizes names to lower case, applies the default weight and drops
// duplicate or blank entries. Declaration order is kept.
func New(skills []Skill, rules []Rule) *Inventory {
	inv := &Inventory{
		index: make(map[string]int, len(skills)),
	}

	for _, r := range rules {
		keyword := normalize(r.Keyword)
		if keyword == "" {
			continue
		}
		inv.rules = append(inv.rules, Rule{Keyword: keyword, Hint: strings.TrimSpace(r.Hint)})
	}

	for _, s := range skills {
		name := normalize(s.Name)
		if name == "" {
			continue
		}
		if _, exists := inv.index[name]; exists {
			continue
		}

		weight := s.Weight
		if weight <= 0 {
			weight = DefaultWeight
		}

		inv.index[name] = len(inv.skills)
		inv.skills = append(inv.skills, Skill{
			Name:     name,
			Weight:   weight,
			Weighted: s.Weight > 0,
			Hint:     inv.ruleHint(name),
		})
	}

	return inv
}

func (i *Inventory) Skills() []Skill {
	out := make([]Skill, len(i.skills))
	copy(out, i.skills)
	return out
}

func (i *Inventory) Rules() []Rule {
	out := make([]Rule, len(i.rules))
	copy(out, i.rules)
	return out
}

func (i *Inventory) Len() int {
	return len(i.skills)
}

// WeightedSkills returns the skills that declare a weight, in inventory order.
func (i *Inventory) WeightedSkills() []Skill {
	out := make([]Skill, 0, len(i.skills))
	for _, s := range i.skills {
		if s.Weighted {
			out = append(out, s)
		}
	}
	return out
}

func (i *Inventory) Hint(name string) string {
	if idx, ok := i.index[normalize(name)]; ok {
		return i.skills[idx].Hint
	}
	return i.ruleHint(normalize(name))
}

// Detect returns the inventory skills mentioned in text, in inventory order.
func (i *Inventory) Detect(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, s := range i.skills {
		if Mentions(lower, s.Name) {
			found = append(found, s.Name)
		}
	}
	return found
}

func (i *Inventory) ruleHint(name string) string {
	for _, r := range i.rules {
		if strings.Contains(name, r.Keyword) {
			return r.Hint
		}
	}
	return ""
}

// Mentions reports whether term occurs in text as a substring. Both are
// expected lower case.
func Mentions(text, term string) bool {
	return term != "" && strings.Contains(text, term)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
