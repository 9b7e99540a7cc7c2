package models_test

import (
	"testing"

	"github.com/garnizeh/placement/pkg/models"
)

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to models.ApplicationStatus
		want     bool
	}{
		{models.StatusApplied, models.StatusShortlisted, true},
		{models.StatusApplied, models.StatusRejected, true},
		{models.StatusApplied, models.StatusInterviewing, false},
		{models.StatusApplied, models.StatusSelected, false},
		{models.StatusApplied, models.StatusApplied, false},
		{models.StatusShortlisted, models.StatusInterviewing, true},
		{models.StatusShortlisted, models.StatusRejected, true},
		{models.StatusShortlisted, models.StatusApplied, false},
		{models.StatusInterviewing, models.StatusSelected, true},
		{models.StatusInterviewing, models.StatusRejected, true},
		{models.StatusInterviewing, models.StatusShortlisted, false},
		{models.StatusSelected, models.StatusApplied, false},
		{models.StatusSelected, models.StatusRejected, false},
		{models.StatusRejected, models.StatusShortlisted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplicationStatus_KnownAndFinal(t *testing.T) {
	for _, s := range models.ApplicationStatuses {
		if !s.Known() {
			t.Fatalf("expected %q to be known", s)
		}
	}
	if models.ApplicationStatus("hired").Known() {
		t.Fatalf("unexpected known status")
	}
	if !models.StatusSelected.Final() || !models.StatusRejected.Final() {
		t.Fatalf("selected and rejected must be final")
	}
	if models.StatusInterviewing.Final() {
		t.Fatalf("interviewing must not be final")
	}
}

func TestNewPagination(t *testing.T) {
	p := models.NewPagination(2, 20, 41)
	if p.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", p.Pages)
	}
	if models.NewPagination(1, 20, 0).Pages != 0 {
		t.Fatalf("expected 0 pages for empty result")
	}
}

func TestRole(t *testing.T) {
	if !models.RoleStudent.SelfRegistrable() || !models.RoleCompany.SelfRegistrable() {
		t.Fatalf("student and company must self register")
	}
	if models.RoleAdmin.SelfRegistrable() {
		t.Fatalf("admin must not self register")
	}
	if models.Role("root").Valid() {
		t.Fatalf("unexpected valid role")
	}
}
