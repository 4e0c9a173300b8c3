package chat

import "github.com/killallgit/madchat/pkg/controllers"

// SnapshotMsg carries a controller snapshot into the program
type SnapshotMsg struct {
	Snapshot controllers.Snapshot
}

// submitResultMsg reports the outcome of a Submit call
type submitResultMsg struct {
	err error
}

// cancelResultMsg reports whether a cancel found an answer in flight
type cancelResultMsg struct {
	cancelled bool
}
