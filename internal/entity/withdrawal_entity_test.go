package entity

import (
	"testing"
	"time"
)

func TestWithdrawalStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from WithdrawalStatus
		to   WithdrawalStatus
		want bool
	}{
		{"pending to processing", WithdrawalStatusPending, WithdrawalStatusProcessing, true},
		{"pending to completed", WithdrawalStatusPending, WithdrawalStatusCompleted, true},
		{"pending to rejected", WithdrawalStatusPending, WithdrawalStatusRejected, true},
		{"pending to cancelled", WithdrawalStatusPending, WithdrawalStatusCancelled, true},
		{"processing to completed", WithdrawalStatusProcessing, WithdrawalStatusCompleted, true},
		{"processing to rejected", WithdrawalStatusProcessing, WithdrawalStatusRejected, true},
		{"processing to cancelled", WithdrawalStatusProcessing, WithdrawalStatusCancelled, false},
		{"completed is terminal", WithdrawalStatusCompleted, WithdrawalStatusProcessing, false},
		{"rejected is terminal", WithdrawalStatusRejected, WithdrawalStatusCompleted, false},
		{"cancelled is terminal", WithdrawalStatusCancelled, WithdrawalStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTransitionSources(t *testing.T) {
	tests := []struct {
		name string
		next WithdrawalStatus
		want []WithdrawalStatus
	}{
		{"completed from pending or processing", WithdrawalStatusCompleted, []WithdrawalStatus{WithdrawalStatusPending, WithdrawalStatusProcessing}},
		{"rejected from pending or processing", WithdrawalStatusRejected, []WithdrawalStatus{WithdrawalStatusPending, WithdrawalStatusProcessing}},
		{"processing from pending only", WithdrawalStatusProcessing, []WithdrawalStatus{WithdrawalStatusPending}},
		{"cancelled from pending only", WithdrawalStatusCancelled, []WithdrawalStatus{WithdrawalStatusPending}},
		{"nothing moves back to pending", WithdrawalStatusPending, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransitionSources(tt.next)
			if len(got) != len(tt.want) {
				t.Fatalf("TransitionSources(%s) = %v, want %v", tt.next, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("TransitionSources(%s)[%d] = %s, want %s", tt.next, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWithdrawalStatusIsTerminal(t *testing.T) {
	terminal := []WithdrawalStatus{WithdrawalStatusCompleted, WithdrawalStatusRejected, WithdrawalStatusCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	open := []WithdrawalStatus{WithdrawalStatusPending, WithdrawalStatusProcessing}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("expected %s to be open", s)
		}
	}
}

func TestReservationActive(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		status        WithdrawalStatus
		reservedUntil time.Time
		want          bool
	}{
		{"pending before deadline", WithdrawalStatusPending, now.Add(time.Hour), true},
		{"pending past deadline", WithdrawalStatusPending, now.Add(-time.Second), false},
		{"processing never lapses", WithdrawalStatusProcessing, now.Add(-time.Hour), true},
		{"completed holds nothing", WithdrawalStatusCompleted, now.Add(time.Hour), false},
		{"cancelled holds nothing", WithdrawalStatusCancelled, now.Add(time.Hour), false},
		{"rejected holds nothing", WithdrawalStatusRejected, now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &WithdrawalRequest{Status: tt.status, ReservedUntil: tt.reservedUntil}
			if got := req.ReservationActive(now); got != tt.want {
				t.Errorf("ReservationActive() = %v, want %v", got, tt.want)
			}
		})
	}
}
