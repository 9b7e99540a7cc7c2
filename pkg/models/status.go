package models

type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "applied"
	StatusShortlisted  ApplicationStatus = "shortlisted"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusSelected     ApplicationStatus = "selected"
	StatusRejected     ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every status an application can hold.
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied,
	StatusShortlisted,
	StatusInterviewing,
	StatusSelected,
	StatusRejected,
}

var statusSuccessors = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:      {StatusShortlisted, StatusRejected},
	StatusShortlisted:  {StatusInterviewing, StatusRejected},
	StatusInterviewing: {StatusSelected, StatusRejected},
}

// Known reports whether s is one of the fixed statuses.
func (s ApplicationStatus) Known() bool {
	for _, v := range ApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Final reports whether no transition leaves s.
func (s ApplicationStatus) Final() bool {
	return s == StatusSelected || s == StatusRejected
}

// CanTransitionTo reports whether next is a direct successor of s.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, v := range statusSuccessors[s] {
		if v == next {
			return true
		}
	}
	return false
}
