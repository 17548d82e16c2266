package breakout_test

import (
	"math"
	"testing"
	"time"

	"github.com/bammbuu/bammbuu-server/internal/app/system/breakout"
)

var t0 = time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC)

func startedRoom(members []string, capacity int, length time.Duration) breakout.Room {
	end := t0.Add(length)
	started := t0
	return breakout.Room{
		ID:        "room-1",
		Members:   members,
		Capacity:  capacity,
		StartedAt: &started,
		EndAt:     &end,
	}
}

func TestCanCreateRooms_Matrix(t *testing.T) {
	cases := []struct {
		name   string
		role   breakout.Role
		admin  []string
		tutor  []string
		target string
		want   bool
	}{
		{"student with admin standing", breakout.RoleStudent, []string{"c1"}, nil, "c1", true},
		{"student without admin standing", breakout.RoleStudent, nil, nil, "c1", false},
		{"student with admin standing elsewhere", breakout.RoleStudent, []string{"c2"}, nil, "c1", false},
		{"tutor with tutor standing", breakout.RoleTutor, nil, []string{"c1"}, "c1", true},
		{"tutor without tutor standing", breakout.RoleTutor, nil, nil, "c1", false},
		{"tutor with tutor standing elsewhere", breakout.RoleTutor, nil, []string{"c2"}, "c1", false},
		{"student with only tutor standing", breakout.RoleStudent, nil, []string{"c1"}, "c1", false},
		{"tutor with only admin standing", breakout.RoleTutor, []string{"c1"}, nil, "c1", false},
		{"unknown role", breakout.Role("moderator"), []string{"c1"}, []string{"c1"}, "c1", false},
		{"empty target", breakout.RoleTutor, nil, []string{"c1"}, "", false},
	}
	for _, tc := range cases {
		pc := breakout.NewPermissionContext(tc.role, tc.admin, tc.tutor, tc.target)
		if got := breakout.CanCreateRooms(pc); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanCreateRooms_ZeroContext(t *testing.T) {
	if breakout.CanCreateRooms(breakout.PermissionContext{}) {
		t.Error("zero context must not grant creation")
	}
}

func TestRoomStatus(t *testing.T) {
	room := startedRoom(nil, 4, 30*time.Minute)

	if got := breakout.RoomStatus(breakout.Room{}, t0); got != breakout.NotStarted {
		t.Errorf("unstarted: got %v", got)
	}
	if got := breakout.RoomStatus(room, t0.Add(29*time.Minute)); got != breakout.Active {
		t.Errorf("before end: got %v", got)
	}
	// Exactly at the end time the room is still active; expiry is strict.
	if got := breakout.RoomStatus(room, t0.Add(30*time.Minute)); got != breakout.Active {
		t.Errorf("at end: got %v", got)
	}
	if got := breakout.RoomStatus(room, t0.Add(31*time.Minute)); got != breakout.Expired {
		t.Errorf("after end: got %v", got)
	}
}

func TestRoomStatus_NoEndNeverExpires(t *testing.T) {
	started := t0
	room := breakout.Room{StartedAt: &started}
	if got := breakout.RoomStatus(room, t0.Add(1000*time.Hour)); got != breakout.Active {
		t.Errorf("room without end time: got %v, want Active", got)
	}
}

func TestRemainingTime(t *testing.T) {
	room := startedRoom(nil, 4, 30*time.Minute)

	if _, ok := breakout.RemainingTime(breakout.Room{}, t0); ok {
		t.Error("unstarted room should have no remaining time")
	}

	rem, ok := breakout.RemainingTime(room, t0.Add(12*time.Minute+30*time.Second))
	if !ok || rem.Expired {
		t.Fatalf("active room: got (%+v, %v)", rem, ok)
	}
	if rem.Minutes != 17 || rem.Seconds != 30 {
		t.Errorf("got %dm%ds, want 17m30s", rem.Minutes, rem.Seconds)
	}

	// Under a minute left: minutes truncate to zero, seconds carry the value.
	rem, _ = breakout.RemainingTime(room, t0.Add(29*time.Minute+18*time.Second))
	if rem.Minutes != 0 || rem.Seconds != 42 {
		t.Errorf("got %dm%ds, want 0m42s", rem.Minutes, rem.Seconds)
	}

	rem, ok = breakout.RemainingTime(room, t0.Add(31*time.Minute))
	if !ok || !rem.Expired {
		t.Errorf("expired room: got (%+v, %v), want Expired sentinel", rem, ok)
	}
}

func TestCanJoin_Precedence(t *testing.T) {
	room := startedRoom([]string{"u1"}, 1, 30*time.Minute)
	now := t0.Add(5 * time.Minute)

	// Member re-entry beats Full.
	d := breakout.CanJoin(room, "u1", now)
	if !d.Eligible || d.Reason != breakout.JoinAlreadyMember {
		t.Errorf("member join: got %+v", d)
	}

	d = breakout.CanJoin(room, "u2", now)
	if d.Eligible || d.Reason != breakout.JoinFull {
		t.Errorf("full room join: got %+v", d)
	}

	// Member re-entry beats Expired too.
	late := t0.Add(2 * time.Hour)
	d = breakout.CanJoin(room, "u1", late)
	if !d.Eligible || d.Reason != breakout.JoinAlreadyMember {
		t.Errorf("member join after expiry: got %+v", d)
	}
	d = breakout.CanJoin(room, "u2", late)
	if d.Eligible || d.Reason != breakout.JoinExpired {
		t.Errorf("expired join: got %+v", d)
	}
}

func TestCanJoin_Ok(t *testing.T) {
	room := startedRoom([]string{"u1"}, 3, 30*time.Minute)
	d := breakout.CanJoin(room, "u2", t0.Add(time.Minute))
	if !d.Eligible || d.Reason != breakout.JoinOk {
		t.Errorf("got %+v, want eligible Ok", d)
	}
}

func TestOccupancyRatio(t *testing.T) {
	if got := breakout.OccupancyRatio(breakout.Room{Members: []string{"a", "b"}, Capacity: 4}); got != 0.5 {
		t.Errorf("2/4: got %v", got)
	}
	if got := breakout.OccupancyRatio(breakout.Room{Members: []string{"a", "b"}, Capacity: 2}); got != 1.0 {
		t.Errorf("at capacity: got %v, want exactly 1.0", got)
	}
	if got := breakout.OccupancyRatio(breakout.Room{Members: []string{"a"}, Capacity: 0}); !math.IsInf(got, 1) {
		t.Errorf("1/0: got %v, want +Inf", got)
	}
	if got := breakout.OccupancyRatio(breakout.Room{Capacity: 0}); !math.IsNaN(got) {
		t.Errorf("0/0: got %v, want NaN", got)
	}
}
