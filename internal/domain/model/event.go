package model

import "time"

// RosterEventKind tells what happened to a participant list.
type RosterEventKind string

const (
	RosterSignedUp     RosterEventKind = "signed_up"
	RosterUnregistered RosterEventKind = "unregistered"
)

// RosterEvent is published after every successful signup or unregister.
type RosterEvent struct {
	ID           string          // unique id, also used for log correlation
	Kind         RosterEventKind // what happened
	Activity     string          // activity name
	Email        string          // participant email
	Participants int             // participant count after the change
	At           time.Time       // when the change was applied
}
