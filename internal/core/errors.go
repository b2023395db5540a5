package core

import "errors"

var (
	// ErrMailboxClosed is returned by sends on a mailbox whose delivery has
	// stopped. Callers treat it as "recipient gone" and move on.
	ErrMailboxClosed = errors.New("mailbox closed")
	// ErrDuplicateSession is returned when a username is already registered.
	ErrDuplicateSession = errors.New("username already connected")
)
