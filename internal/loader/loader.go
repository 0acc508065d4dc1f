package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/napolitain/geode-solver/internal/models"
)

// ErrMalformedBlueprint is wrapped by every parse error
var ErrMalformedBlueprint = errors.New("malformed blueprint")

// Precompiled regex for better performance
var (
	headerRegex   = regexp.MustCompile(`Blueprint\s+(\d+)\s*:`)
	sentenceRegex = regexp.MustCompile(`Each\s+(\w+)\s+robot\s+costs\s+([^.]+)\.`)
	amountRegex   = regexp.MustCompile(`^(\d+)\s+(\w+)$`)
	andRegex      = regexp.MustCompile(`\s+and\s+`)
)

// blueprintRecord is the validated shape of one parsed record
type blueprintRecord struct {
	ID    int                                           `validate:"min=1"`
	Costs [models.NumResources][models.NumResources]int `validate:"dive,dive,min=0"`
}

var validate = validator.New()

// LoadBlueprints reads every blueprint from a file
func LoadBlueprints(path string) ([]models.Blueprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	blueprints, err := ParseBlueprints(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return blueprints, nil
}

// ParseBlueprints parses blueprint records. Records may span several lines
// and be separated by blank lines, or sit one per line.
func ParseBlueprints(r io.Reader) ([]models.Blueprint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read blueprints: %w", err)
	}
	text := string(data)

	starts := headerRegex.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: no \"Blueprint <id>:\" header found", ErrMalformedBlueprint)
	}
	if lead := strings.TrimSpace(text[:starts[0][0]]); lead != "" {
		return nil, fmt.Errorf("%w: unexpected text before first blueprint: %q", ErrMalformedBlueprint, lead)
	}

	blueprints := make([]models.Blueprint, 0, len(starts))
	seen := make(map[int]bool, len(starts))

	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}

		bp, err := ParseBlueprint(text[loc[0]:end])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if seen[bp.ID] {
			return nil, fmt.Errorf("record %d: %w: duplicate id %d", i+1, ErrMalformedBlueprint, bp.ID)
		}
		seen[bp.ID] = true

		blueprints = append(blueprints, bp)
	}

	return blueprints, nil
}

// ParseBlueprint parses a single record
func ParseBlueprint(s string) (models.Blueprint, error) {
	header := headerRegex.FindStringSubmatchIndex(s)
	if header == nil {
		return models.Blueprint{}, fmt.Errorf("%w: missing header", ErrMalformedBlueprint)
	}
	if lead := strings.TrimSpace(s[:header[0]]); lead != "" {
		return models.Blueprint{}, fmt.Errorf("%w: unexpected text before header: %q", ErrMalformedBlueprint, lead)
	}
	id, err := strconv.Atoi(s[header[2]:header[3]])
	if err != nil {
		return models.Blueprint{}, fmt.Errorf("%w: bad id: %v", ErrMalformedBlueprint, err)
	}

	body := s[header[1]:]
	rec := blueprintRecord{ID: id}
	var defined [models.NumResources]bool

	for _, m := range sentenceRegex.FindAllStringSubmatch(body, -1) {
		robot, err := models.ParseResource(m[1])
		if err != nil {
			return models.Blueprint{}, fmt.Errorf("%w: blueprint %d: %v", ErrMalformedBlueprint, id, err)
		}
		if defined[robot] {
			return models.Blueprint{}, fmt.Errorf("%w: blueprint %d: %s robot defined twice", ErrMalformedBlueprint, id, robot)
		}
		defined[robot] = true

		cost, err := parseCost(m[2])
		if err != nil {
			return models.Blueprint{}, fmt.Errorf("%w: blueprint %d: %s robot: %v", ErrMalformedBlueprint, id, robot, err)
		}
		rec.Costs[robot] = cost
	}

	for _, r := range models.AllResources() {
		if !defined[r] {
			return models.Blueprint{}, fmt.Errorf("%w: blueprint %d: missing %s robot cost", ErrMalformedBlueprint, id, r)
		}
	}

	if leftover := strings.TrimSpace(sentenceRegex.ReplaceAllString(body, "")); leftover != "" {
		return models.Blueprint{}, fmt.Errorf("%w: blueprint %d: unexpected text %q", ErrMalformedBlueprint, id, leftover)
	}

	if err := validate.Struct(rec); err != nil {
		return models.Blueprint{}, fmt.Errorf("%w: blueprint %d: %v", ErrMalformedBlueprint, id, err)
	}

	bp := models.Blueprint{ID: rec.ID}
	for i := range rec.Costs {
		bp.Costs[i] = models.Cost(rec.Costs[i])
	}
	return bp, nil
}

// parseCost parses "3 ore and 14 clay"
func parseCost(s string) ([models.NumResources]int, error) {
	var cost [models.NumResources]int
	for _, part := range andRegex.Split(strings.TrimSpace(s), -1) {
		m := amountRegex.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return cost, fmt.Errorf("cannot read amount %q", strings.TrimSpace(part))
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return cost, fmt.Errorf("bad amount %q: %v", m[1], err)
		}
		paid, err := models.ParseResource(m[2])
		if err != nil {
			return cost, err
		}
		if paid == models.Target {
			return cost, fmt.Errorf("%s cannot be spent", paid)
		}
		cost[paid] += n
	}
	return cost, nil
}

// Validate checks a blueprint built outside the parser
func Validate(bp models.Blueprint) error {
	rec := blueprintRecord{ID: bp.ID}
	for i := range bp.Costs {
		rec.Costs[i] = bp.Costs[i]
	}
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: blueprint %d: %v", ErrMalformedBlueprint, bp.ID, err)
	}
	for _, c := range bp.Costs {
		if c[models.Target] != 0 {
			return fmt.Errorf("%w: blueprint %d: %s cannot be spent", ErrMalformedBlueprint, bp.ID, models.Target)
		}
	}
	return nil
}
