// Package evaluation holds the records of a performance-evaluation cycle and the report
// built from them.
package evaluation

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"evalytics/domain/core"
)

// Cycle is an evaluation period.
type Cycle struct {
	ID       core.CycleID `json:"id" db:"id"`
	Name     string       `json:"name" db:"name"`
	StartsAt time.Time    `json:"starts_at" db:"starts_at"`
	EndsAt   time.Time    `json:"ends_at" db:"ends_at"`
}

// Validate checks the cycle has an id, a name and a non-inverted period.
func (c Cycle) Validate() error {
	if c.ID.String() == "" {
		return core.NewValidationError("cycle id", "is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return core.NewValidationError("cycle name", "is required")
	}
	if !c.StartsAt.IsZero() && !c.EndsAt.IsZero() && c.EndsAt.Before(c.StartsAt) {
		return core.NewValidationError("cycle period", "ends before it starts")
	}
	return nil
}

// Score is one dimension score of one employee in a cycle.
type Score struct {
	ID         core.ID         `json:"id" db:"id"`
	CycleID    core.CycleID    `json:"cycle_id" db:"cycle_id"`
	EmployeeID core.EmployeeID `json:"employee_id" db:"employee_id"`
	Segment    string          `json:"segment" db:"segment"`
	Dimension  string          `json:"dimension" db:"dimension"`
	Value      float64         `json:"value" db:"value"`
}

// Validate checks the fields every analysis relies on.
func (s Score) Validate() error {
	if s.EmployeeID.String() == "" {
		return core.NewValidationError("employee_id", "is required")
	}
	if strings.TrimSpace(s.Dimension) == "" {
		return core.NewValidationError("dimension", fmt.Sprintf("is required for employee %s", s.EmployeeID))
	}
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return core.NewValidationError("value", fmt.Sprintf("must be finite for employee %s", s.EmployeeID))
	}
	return nil
}

// ItemResponse is one answer of a respondent to an instrument item.
type ItemResponse struct {
	CycleID      core.CycleID      `json:"cycle_id" db:"cycle_id"`
	InstrumentID core.InstrumentID `json:"instrument_id" db:"instrument_id"`
	ItemCode     string            `json:"item_code" db:"item_code"`
	RespondentID string            `json:"respondent_id" db:"respondent_id"`
	Value        float64           `json:"value" db:"value"`
}

// ItemMatrix arranges responses as items x respondents, both sorted by code. Respondents
// missing an answer to any item are left out so every row has the same length. A repeated
// answer replaces the earlier one.
func ItemMatrix(responses []ItemResponse) ([]string, [][]float64) {
	answers := make(map[string]map[string]float64)
	respondents := make(map[string]struct{})
	for _, r := range responses {
		if answers[r.ItemCode] == nil {
			answers[r.ItemCode] = make(map[string]float64)
		}
		answers[r.ItemCode][r.RespondentID] = r.Value
		respondents[r.RespondentID] = struct{}{}
	}

	items := make([]string, 0, len(answers))
	for code := range answers {
		items = append(items, code)
	}
	sort.Strings(items)

	var complete []string
	for id := range respondents {
		ok := true
		for _, code := range items {
			if _, answered := answers[code][id]; !answered {
				ok = false
				break
			}
		}
		if ok {
			complete = append(complete, id)
		}
	}
	sort.Strings(complete)

	matrix := make([][]float64, len(items))
	for i, code := range items {
		row := make([]float64, len(complete))
		for j, id := range complete {
			row[j] = answers[code][id]
		}
		matrix[i] = row
	}
	return items, matrix
}

// EmployeeProfile gathers the dimension scores of one employee.
type EmployeeProfile struct {
	EmployeeID core.EmployeeID    `json:"employee_id"`
	Segment    string             `json:"segment"`
	Scores     map[string]float64 `json:"scores"`
	Average    float64            `json:"average"`
}

// Score returns the employee's score in dimension, or 0 when it was not evaluated.
func (p EmployeeProfile) Score(dimension string) float64 {
	return p.Scores[dimension]
}

// Profiles builds one profile per employee, sorted by employee id. Several scores for the
// same dimension are averaged; the segment is taken from the employee's first score.
func Profiles(scores []Score) []EmployeeProfile {
	type acc struct {
		segment string
		sums    map[string]float64
		counts  map[string]int
	}
	byEmployee := make(map[core.EmployeeID]*acc)
	for _, s := range scores {
		a, ok := byEmployee[s.EmployeeID]
		if !ok {
			a = &acc{segment: s.Segment, sums: map[string]float64{}, counts: map[string]int{}}
			byEmployee[s.EmployeeID] = a
		}
		a.sums[s.Dimension] += s.Value
		a.counts[s.Dimension]++
	}

	profiles := make([]EmployeeProfile, 0, len(byEmployee))
	for id, a := range byEmployee {
		p := EmployeeProfile{EmployeeID: id, Segment: a.segment, Scores: make(map[string]float64, len(a.sums))}
		var total float64
		for dim, sum := range a.sums {
			v := sum / float64(a.counts[dim])
			p.Scores[dim] = v
			total += v
		}
		p.Average = total / float64(len(a.sums))
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].EmployeeID < profiles[j].EmployeeID })
	return profiles
}

// Dimensions lists the distinct dimensions of scores, sorted.
func Dimensions(scores []Score) []string {
	seen := make(map[string]struct{})
	for _, s := range scores {
		seen[s.Dimension] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Fingerprint hashes scores independently of their order, so a report can be traced back
// to the exact input it was computed from.
func Fingerprint(scores []Score) core.Hash {
	lines := make([]string, len(scores))
	for i, s := range scores {
		lines[i] = fmt.Sprintf("%s|%s|%s|%g", s.EmployeeID, s.Segment, s.Dimension, s.Value)
	}
	sort.Strings(lines)
	return core.NewHash([]byte(strings.Join(lines, "\n")))
}
