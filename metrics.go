package ioc

import "time"

// ResolveObserver is called after every resolution, nested ones included.
type ResolveObserver func(contract string, duration time.Duration, err error)

// RegisterObserver is called after every accepted registration.
type RegisterObserver func(contract string, replaced bool)

// CloseObserver is called for every singleton closed by Close.
type CloseObserver func(contract string, err error)
