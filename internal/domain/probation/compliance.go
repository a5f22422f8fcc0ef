package probation

import (
	"time"

	"github.com/ibutrack/teamboard/internal/domain/model"
	"github.com/ibutrack/teamboard/internal/domain/types"
)

// Post-probation window states.
const (
	ComplianceTooEarly     = "too_early"
	ComplianceInsufficient = "insufficient_data"
	ComplianceCompliant    = "compliant"
	ComplianceNonCompliant = "non_compliant"
	ComplianceOnTrack      = "on_track"
	ComplianceAtRisk       = "at_risk"
)

// compliancePeriods walks consecutive 90-day windows from the probation end
// date up to now and scores each one. Window boundaries demand an exact
// snapshot on the boundary date; the open window substitutes the member's
// latest points for its end reading. Only the three most recent windows are
// reported. Returns the windows plus the aggregate compliance status.
func (e *Evaluator) compliancePeriods(snaps []model.MemberSnapshot, name string, probationEnd, now time.Time, current int64) ([]types.CompliancePeriod, string) {
	if now.Before(probationEnd) {
		return nil, ComplianceTooEarly
	}

	var periods []types.CompliancePeriod
	start := probationEnd
	number := 1
	for !start.After(now) {
		end := start.AddDate(0, 0, model.ComplianceWindowDays)
		isCurrent := now.Before(end)

		p := types.CompliancePeriod{
			PeriodNumber:    number,
			StartDate:       start.Format(model.DateLayout),
			EndDate:         end.Format(model.DateLayout),
			TargetPoints:    e.complianceTarget,
			Status:          ComplianceInsufficient,
			IsCurrentPeriod: isCurrent,
		}

		if v, ok := pointsOn(snaps, name, start); ok {
			p.PointsAtStart = &v
			p.StartDateFound = true
		}
		if isCurrent {
			v := current
			p.PointsAtEnd = &v
			p.EndDateFound = true
		} else if v, ok := pointsOn(snaps, name, end); ok {
			p.PointsAtEnd = &v
			p.EndDateFound = true
		}

		if p.StartDateFound && p.EndDateFound {
			earned := *p.PointsAtEnd - *p.PointsAtStart
			if earned < 0 {
				earned = 0
			}
			p.PointsEarned = &earned

			if isCurrent {
				daysElapsed := daysBetween(start, now)
				if daysElapsed < 1 {
					daysElapsed = 1
				}
				switch {
				case earned >= e.complianceTarget:
					p.Status = ComplianceCompliant
				case daysElapsed >= 85:
					p.Status = ComplianceAtRisk
				default:
					p.Status = ComplianceOnTrack
				}

				daysRemaining := model.ComplianceWindowDays - daysElapsed
				if daysRemaining < 0 {
					daysRemaining = 0
				}
				p.DaysElapsed = daysElapsed
				p.DaysRemaining = daysRemaining
				p.DailyRate = float64(earned) / float64(daysElapsed)
				p.ProjectedTotal = p.DailyRate * float64(model.ComplianceWindowDays)
				remaining := e.complianceTarget - earned
				if remaining < 0 {
					remaining = 0
				}
				p.RemainingNeeded = remaining
				if daysRemaining > 0 {
					p.DailyNeeded = float64(remaining) / float64(daysRemaining)
				}
			} else if earned >= e.complianceTarget {
				p.Status = ComplianceCompliant
			} else {
				p.Status = ComplianceNonCompliant
			}
		}

		periods = append(periods, p)
		if isCurrent {
			break
		}
		start = end
		number++
	}

	if len(periods) > 3 {
		periods = periods[len(periods)-3:]
	}
	return periods, aggregateStatus(periods)
}

// aggregateStatus folds the visible windows into one member-level state. Any
// non-compliant completed window dominates; otherwise the open window speaks
// for itself; all-compliant completed windows report compliant.
func aggregateStatus(periods []types.CompliancePeriod) string {
	if len(periods) == 0 {
		return ComplianceInsufficient
	}

	var current *types.CompliancePeriod
	anyData := false
	nonCompliantCompleted := false
	completedWithData := false
	for i := range periods {
		p := &periods[i]
		if p.Status == ComplianceInsufficient {
			continue
		}
		anyData = true
		if p.IsCurrentPeriod {
			current = p
			continue
		}
		completedWithData = true
		if p.Status == ComplianceNonCompliant {
			nonCompliantCompleted = true
		}
	}

	switch {
	case !anyData:
		return ComplianceInsufficient
	case nonCompliantCompleted:
		return ComplianceNonCompliant
	case current != nil:
		switch current.Status {
		case ComplianceCompliant, ComplianceOnTrack, ComplianceAtRisk:
			return current.Status
		}
		return StatusInProgress
	case completedWithData:
		return ComplianceCompliant
	}
	return ComplianceInsufficient
}

// pointsOn returns the member's points in the snapshot dated exactly on day,
// if such a snapshot exists and contains the member.
func pointsOn(snaps []model.MemberSnapshot, name string, day time.Time) (int64, bool) {
	want := model.Day(day)
	for _, snap := range snaps {
		if !model.Day(snap.Date).Equal(want) {
			continue
		}
		if row, ok := snap.Find(name); ok {
			return row.Points, true
		}
		return 0, false
	}
	return 0, false
}
