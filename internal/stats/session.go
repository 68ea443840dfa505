// Package stats holds the pure aggregation behind session counters and
// progress reports. Nothing here touches storage.
package stats

import "climbtracker/internal/model"

// AggregateSession derives a session's counters from its climbs.
//
// MaxGrade is the greatest grade label among sent climbs by plain string
// comparison. Labels are not converted between grade systems, so "V10" sorts
// below "V9" and a YDS grade may outrank a V grade. MaxGrade is nil when no
// climb was sent.
func AggregateSession(climbs []model.Climb) model.SessionMetrics {
	var m model.SessionMetrics
	m.TotalClimbs = len(climbs)

	for _, c := range climbs {
		m.Attempts += c.Attempts
		if !c.Sent {
			continue
		}
		m.Sends++
		if m.MaxGrade == nil || c.Grade > *m.MaxGrade {
			grade := c.Grade
			m.MaxGrade = &grade
		}
	}

	return m
}
