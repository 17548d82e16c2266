// Package breakout decides breakout room permissions, join eligibility and
// countdown state for live class sessions.
//
// Like the schedule engine, this package is pure: rooms arrive as snapshots,
// now is always an explicit parameter, and every function is total. Callers
// re-evaluate on their own polling cadence; nothing here is cached.
package breakout

import "time"

// Role is the acting user's platform role.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// PermissionContext carries the acting user's standing for a room-creation
// decision. The sets come from the session/profile collaborator and are
// treated as already validated.
type PermissionContext struct {
	Role          Role
	AdminClassIDs map[string]bool
	TutorClassIDs map[string]bool
	TargetClassID string
}

// NewPermissionContext builds a PermissionContext from slices, which is how
// class standing comes back from the store layer.
func NewPermissionContext(role Role, adminIDs, tutorIDs []string, target string) PermissionContext {
	pc := PermissionContext{
		Role:          role,
		AdminClassIDs: make(map[string]bool, len(adminIDs)),
		TutorClassIDs: make(map[string]bool, len(tutorIDs)),
		TargetClassID: target,
	}
	for _, id := range adminIDs {
		pc.AdminClassIDs[id] = true
	}
	for _, id := range tutorIDs {
		pc.TutorClassIDs[id] = true
	}
	return pc
}

// CanCreateRooms reports whether the acting user may create breakout rooms
// for the target class: students need admin standing for that class, tutors
// need tutor standing. Every other combination, including an absent or
// malformed context, is false.
func CanCreateRooms(pc PermissionContext) bool {
	if pc.TargetClassID == "" {
		return false
	}
	switch pc.Role {
	case RoleStudent:
		return pc.AdminClassIDs[pc.TargetClassID]
	case RoleTutor:
		return pc.TutorClassIDs[pc.TargetClassID]
	default:
		return false
	}
}

// Room is a breakout room snapshot. StartedAt is nil until the organizer
// activates the room; EndAt is nil when no expiry can be computed.
type Room struct {
	ID        string
	Members   []string
	Capacity  int
	StartedAt *time.Time
	EndAt     *time.Time
}

// Status is the lifecycle state of a room. The machine only moves forward:
// NotStarted -> Active -> Expired, with Expired terminal.
type Status int

const (
	NotStarted Status = iota
	Active
	Expired
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "not_started"
	}
}

// RoomStatus evaluates the room's state at now. A room that was started but
// has no end time never expires.
func RoomStatus(r Room, now time.Time) Status {
	if r.StartedAt == nil {
		return NotStarted
	}
	if r.EndAt != nil && now.After(*r.EndAt) {
		return Expired
	}
	return Active
}

// Remaining is the countdown payload for an active room. Minutes and Seconds
// are floor-truncated; when Minutes is 0 the caller shows a seconds-only
// string. Expired is the sentinel for a room past its end time.
type Remaining struct {
	Minutes int
	Seconds int
	Expired bool
}

// RemainingTime computes the countdown for a room at now. ok is false for
// rooms that have not started or have no end time to count toward; an expired
// room reports ok=true with the Expired sentinel set.
func RemainingTime(r Room, now time.Time) (Remaining, bool) {
	switch RoomStatus(r, now) {
	case NotStarted:
		return Remaining{}, false
	case Expired:
		return Remaining{Expired: true}, true
	}
	if r.EndAt == nil {
		return Remaining{}, false
	}
	left := r.EndAt.Sub(now)
	if left < 0 {
		left = 0
	}
	return Remaining{
		Minutes: int(left / time.Minute),
		Seconds: int((left % time.Minute) / time.Second),
	}, true
}

// JoinReason explains a join decision.
type JoinReason string

const (
	JoinOk            JoinReason = "ok"
	JoinAlreadyMember JoinReason = "already_member"
	JoinFull          JoinReason = "full"
	JoinExpired       JoinReason = "expired"
)

// JoinDecision is the outcome of a join attempt. AlreadyMember is eligible:
// it is a re-entry, not a rejection.
type JoinDecision struct {
	Eligible bool
	Reason   JoinReason
}

// CanJoin evaluates whether userID may enter the room at now.
//
// Membership takes precedence over everything else: a member may always
// return to their room even if it has since filled or expired, mirroring the
// "Return to Room" button beating "Room Full"/"Room Expired". Otherwise an
// expired room rejects before a full one.
func CanJoin(r Room, userID string, now time.Time) JoinDecision {
	for _, m := range r.Members {
		if m == userID {
			return JoinDecision{Eligible: true, Reason: JoinAlreadyMember}
		}
	}
	if RoomStatus(r, now) == Expired {
		return JoinDecision{Eligible: false, Reason: JoinExpired}
	}
	if len(r.Members) >= r.Capacity {
		return JoinDecision{Eligible: false, Reason: JoinFull}
	}
	return JoinDecision{Eligible: true, Reason: JoinOk}
}

// OccupancyRatio is members over capacity, used only for progress-bar
// thresholding. Capacity 0 follows IEEE float division (+Inf for an occupied
// room, NaN for 0/0) rather than panicking; display code clamps.
func OccupancyRatio(r Room) float64 {
	return float64(len(r.Members)) / float64(r.Capacity)
}
