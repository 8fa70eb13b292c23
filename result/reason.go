package result

import (
	"fmt"

	"healconf/keypath"
)

//go:generate go tool stringer -type=Reason -linecomment -output=reason_string.go

// Reason explains why an entry was changed during a read.
type Reason int

const (
	// Missing means the entry was absent and a default was substituted.
	Missing Reason = iota // missing
	// Updated means the stored form was not canonical and was rewritten.
	Updated // updated
	// Migrated means the data came from a migration source.
	Migrated // migrated
	// Other covers changes made by custom codecs.
	Other // other
)

// Update records one changed entry.
type Update struct {
	Path   keypath.Path
	Reason Reason
}

func (u Update) String() string {
	if u.Path.IsRoot() {
		return fmt.Sprintf("<root> (%s)", u.Reason)
	}

	return fmt.Sprintf("%s (%s)", u.Path, u.Reason)
}
