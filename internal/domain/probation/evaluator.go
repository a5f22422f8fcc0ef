// Package probation implements the per-member milestone state machine and
// the post-probation compliance window tracker.
//
// Evaluation is deterministic and idempotent over the append-only snapshot
// set: the same snapshots, overrides, and clock always yield the same report.
package probation

import (
	"sort"
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/types"
)

// Status values for the aggregate probation state.
const (
	StatusPassed     = "passed"
	StatusFailed     = "failed"
	StatusInProgress = "in_progress"
)

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithNow fixes the evaluator's clock. Tests use this to pin "today".
func WithNow(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMilestones replaces the default milestone definitions.
func WithMilestones(week1, month1, month3 model.Milestone) Option {
	return func(e *Evaluator) {
		e.milestones = [3]model.Milestone{week1, month1, month3}
	}
}

// WithComplianceTarget sets the per-window production target.
func WithComplianceTarget(target int64) Option {
	return func(e *Evaluator) {
		if target > 0 {
			e.complianceTarget = target
		}
	}
}

// Evaluator computes probation reports from snapshot history.
type Evaluator struct {
	now              func() time.Time
	milestones       [3]model.Milestone
	complianceTarget int64
}

// New constructs an Evaluator with production milestone definitions.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		now:              time.Now,
		milestones:       model.Milestones(),
		complianceTarget: model.ComplianceTarget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report evaluates every member of the latest snapshot against the full
// snapshot history, applying admin overrides per milestone. Members whose
// joined date cannot be parsed are skipped; one member's bad data never
// aborts the others. Snapshots must be in ascending date order.
func (e *Evaluator) Report(snaps []model.MemberSnapshot, overrides types.OverrideMap) (types.ProbationReport, error) {
	if len(snaps) == 0 {
		return types.ProbationReport{}, ErrNoSnapshots
	}
	now := model.Day(e.now())
	latest := snaps[len(snaps)-1]

	var members []types.MemberStatus
	for _, row := range latest.Rows {
		joined, ok := model.ParseJoinedDate(row.JoinedDate)
		if !ok {
			continue
		}
		joined = model.Day(joined)

		ov := overrides[row.Name]
		results := [3]types.MilestoneResult{}
		for i, m := range e.milestones {
			results[i] = e.evaluateMilestone(snaps, row.Name, joined, m, now, row.Points)
		}
		applyOverride(&results, ov)

		status := e.probationStatus(results, joined, now)

		ms := types.MemberStatus{
			Name:             row.Name,
			JoinedDate:       row.JoinedDate,
			JoinedDateParsed: joined.Format(model.DateLayout),
			DaysSinceJoined:  daysBetween(joined, now),
			CurrentPoints:    row.Points,
			ProbationStatus:  status,
			Overrides:        ov,
			Milestones: types.MilestoneSet{
				Week1:  results[0],
				Month1: results[1],
				Month3: results[2],
			},
		}
		if status == StatusPassed {
			probationEnd := joined.AddDate(0, 0, e.milestones[2].DayOffset)
			ms.PostProbationPeriods, ms.PostProbationStatus = e.compliancePeriods(snaps, row.Name, probationEnd, now, row.Points)
		}
		members = append(members, ms)
	}

	sortMembers(members)
	return types.ProbationReport{Success: true, Members: members}, nil
}

// evaluateMilestone runs one milestone check for one member.
//
// The first snapshot dated at or after the deadline supplies the
// points-at-deadline reading; the month_3 milestone instead always uses the
// member's current points once due, since the latest snapshot doubles as the
// deadline reading there.
func (e *Evaluator) evaluateMilestone(snaps []model.MemberSnapshot, name string, joined time.Time, m model.Milestone, now time.Time, current int64) types.MilestoneResult {
	deadline := joined.AddDate(0, 0, m.DayOffset)

	var atDeadline *int64
	if m.Key == model.MilestoneMonth3.Key {
		v := current
		atDeadline = &v
	} else {
		for _, snap := range snaps {
			day := model.Day(snap.Date)
			if day.Before(joined) || day.Before(deadline) {
				continue
			}
			if row, ok := snap.Find(name); ok {
				v := row.Points
				atDeadline = &v
				break
			}
		}
	}

	var passed *bool
	switch {
	case !now.Before(deadline):
		// Deadline has passed.
		if atDeadline != nil {
			v := *atDeadline >= m.Target
			passed = &v
		} else if current >= m.Target {
			v := true
			passed = &v
		}
	case current >= m.Target:
		// Early achievement before the deadline.
		v := true
		passed = &v
	}

	daysLeft := 0
	if now.Before(deadline) {
		daysLeft = daysBetween(now, deadline)
	}
	remaining := m.Target - current
	if remaining < 0 {
		remaining = 0
	}
	return types.MilestoneResult{
		Target:            m.Target,
		PointsAtDeadline:  atDeadline,
		HasHistoricalData: atDeadline != nil,
		Passed:            passed,
		Deadline:          deadline.Format(model.DateLayout),
		RemainingPoints:   remaining,
		DaysLeft:          daysLeft,
	}
}

// probationStatus folds the three milestone results into one state:
// passed iff all three are true; failed iff any milestone whose deadline has
// passed evaluated to false (month_3 checked first, then month_1, week_1);
// in_progress otherwise. An undetermined milestone never fails a member.
func (e *Evaluator) probationStatus(results [3]types.MilestoneResult, joined, now time.Time) string {
	all := true
	for _, r := range results {
		if r.Passed == nil || !*r.Passed {
			all = false
			break
		}
	}
	if all {
		return StatusPassed
	}
	for i := 2; i >= 0; i-- {
		deadline := joined.AddDate(0, 0, e.milestones[i].DayOffset)
		if !now.Before(deadline) && results[i].Passed != nil && !*results[i].Passed {
			return StatusFailed
		}
	}
	return StatusInProgress
}

// applyOverride replaces computed pass values with admin decisions. Both true
// and false overrides are honored unconditionally; an absent key leaves the
// computed value untouched.
func applyOverride(results *[3]types.MilestoneResult, ov types.Override) {
	if ov.Week1 != nil {
		v := *ov.Week1
		results[0].Passed = &v
	}
	if ov.Month1 != nil {
		v := *ov.Month1
		results[1].Passed = &v
	}
	if ov.Month3 != nil {
		v := *ov.Month3
		results[2].Passed = &v
	}
}

// sortMembers orders failed first, then in_progress, then passed and
// anything else, ascending by days since joined within each group.
func sortMembers(members []types.MemberStatus) {
	priority := func(status string) int {
		switch status {
		case StatusFailed:
			return 0
		case StatusInProgress:
			return 1
		}
		return 2
	}
	sort.SliceStable(members, func(i, j int) bool {
		pi, pj := priority(members[i].ProbationStatus), priority(members[j].ProbationStatus)
		if pi != pj {
			return pi < pj
		}
		return members[i].DaysSinceJoined < members[j].DaysSinceJoined
	})
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
