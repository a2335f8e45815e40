// Package names generates diverse reviewer usernames with a weighted mix of
// patterns and a uniqueness guarantee within a run.
package names

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
)

// Built-in name pools, used when no CSV name lists are supplied.
var (
	defaultFirstNames = []string{
		"Arjun", "Diya", "Amit", "Priya", "Rahul", "Neha", "Kavitha", "Nitin", "Sneha", "Vikram",
	}
	defaultLastNames = []string{
		"Patel", "Sharma", "Singh", "Kumar", "Verma", "Gupta", "Nair", "Menon", "Reddy", "Iyer",
	}
	nicknames = []string{
		"Appu", "Bunny", "Chintu", "Dolly", "Golu", "Happy", "Jolly", "Kittu", "Lucky", "Mickey",
		"Nikki", "Pinky", "Ricky", "Sunny", "Tinku", "Vicky", "Zara", "Aadi", "Bebo", "Chiku",
	}
	funkyHandles = []string{
		"Appu", "rockstar99", "miss_shy", "random123", "foodie_lover89",
		"tech_guy", "mom_of_two", "fitness_freak", "bookworm", "traveler_2025",
	}
	years       = []string{"2020", "2021", "2022", "2023", "2024", "2025"}
	numbers     = []string{"123", "456", "789", "007", "99", "88", "77", "55", "44", "22", "11"}
	randomChars = []string{"xyz", "abc", "qwe", "asd", "zxc", "rty", "fgh", "vbn", "mkl"}
	hindiNames  = []string{"अर्जुन", "दीया", "अमित", "प्रिया", "राहुल", "नेहा", "कविता", "स्नेहा"}
	tamilNames  = []string{"அருஜுன்", "தீயா", "அமித்", "பிரியா", "ராகுல்", "நேஹா"}
	teluguNames = []string{"అర్జున్", "దీయా", "అమిత్", "ప్రియా", "రాహుల్", "నేహా"}
)

// pattern weights, in percent. Order matters for the cumulative draw.
type patternWeight struct {
	generate func(g *Generator) string
	weight   int
}

// maxUniqueAttempts bounds the re-draw loop when a username collides.
const maxUniqueAttempts = 50

// Generator produces usernames. It is not safe for concurrent use; the batch
// driver is single-threaded.
type Generator struct {
	firstNames []string
	lastNames  []string
	rng        *rand.Rand
	used       map[string]bool
	patterns   []patternWeight
}

// NewGenerator creates a Generator over the built-in name pools. The caller
// supplies the RNG so tests can be deterministic.
func NewGenerator(rng *rand.Rand) *Generator {
	g := &Generator{
		firstNames: defaultFirstNames,
		lastNames:  defaultLastNames,
		rng:        rng,
		used:       make(map[string]bool),
	}
	g.patterns = []patternWeight{
		{(*Generator).firstLast, 30},
		{(*Generator).firstOnly, 20},
		{(*Generator).lastOnly, 15},
		{(*Generator).nickname, 10},
		{(*Generator).alphanumeric, 15},
		{(*Generator).otherScript, 5},
		{(*Generator).funkyHandle, 5},
	}
	return g
}

// LoadNames replaces the built-in pools with names read from CSV files (one
// name per row, header skipped). An unreadable file is an error; the built-in
// pools stay in place.
func (g *Generator) LoadNames(firstNamesPath, lastNamesPath string) error {
	first, err := readNameColumn(firstNamesPath)
	if err != nil {
		return err
	}
	last, err := readNameColumn(lastNamesPath)
	if err != nil {
		return err
	}
	if len(first) > 0 {
		g.firstNames = first
	}
	if len(last) > 0 {
		g.lastNames = last
	}
	return nil
}

// Generate returns the next username, unique within this Generator. When the
// pool is nearly exhausted a numeric suffix breaks the tie.
func (g *Generator) Generate() string {
	name := g.draw()
	for attempt := 0; g.used[name] && attempt < maxUniqueAttempts; attempt++ {
		name = g.draw()
	}
	if g.used[name] {
		name = fmt.Sprintf("%s%d", name, g.rng.Intn(10000))
	}
	g.used[name] = true
	return name
}

// Reset clears the uniqueness state for a new run.
func (g *Generator) Reset() {
	g.used = make(map[string]bool)
}

// PoolSize reports the number of first and last names available.
func (g *Generator) PoolSize() (int, int) {
	return len(g.firstNames), len(g.lastNames)
}

func (g *Generator) draw() string {
	roll := g.rng.Intn(100)
	cumulative := 0
	for _, p := range g.patterns {
		cumulative += p.weight
		if roll < cumulative {
			return p.generate(g)
		}
	}
	return g.firstLast()
}

func (g *Generator) firstLast() string {
	return g.pick(g.firstNames) + " " + g.pick(g.lastNames)
}

func (g *Generator) firstOnly() string {
	return g.withOptionalSuffix(g.pick(g.firstNames))
}

func (g *Generator) lastOnly() string {
	return g.withOptionalSuffix(g.pick(g.lastNames))
}

func (g *Generator) nickname() string {
	name := g.pick(nicknames)
	if g.rng.Float64() < 0.4 {
		name += g.pick(numbers)
	}
	return name
}

func (g *Generator) alphanumeric() string {
	base := g.pick(g.firstNames)
	switch g.rng.Intn(5) {
	case 0:
		return base + g.pick(years)
	case 1:
		return base + g.pick(numbers)
	case 2:
		return base + "_" + g.pick(numbers)
	case 3:
		return g.pick(numbers) + base
	default:
		return base + g.pick(randomChars)
	}
}

func (g *Generator) otherScript() string {
	var name string
	switch g.rng.Intn(3) {
	case 0:
		name = g.pick(hindiNames)
	case 1:
		name = g.pick(tamilNames)
	default:
		name = g.pick(teluguNames)
	}
	if g.rng.Float64() < 0.3 {
		name += g.pick(numbers)
	}
	return name
}

func (g *Generator) funkyHandle() string {
	name := g.pick(funkyHandles)
	if g.rng.Float64() < 0.4 {
		name += g.pick(numbers)
	}
	return name
}

func (g *Generator) withOptionalSuffix(name string) string {
	if g.rng.Float64() < 0.3 {
		if g.rng.Float64() < 0.5 {
			return name + g.pick(years)
		}
		return name + g.pick(numbers)
	}
	return name
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

func readNameColumn(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read name list %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse name list %s: %w", path, err)
	}

	var names []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue // header or blank
		}
		names = append(names, row[0])
	}
	return names, nil
}
