package engine

import "errors"

var (
	// ErrKindRegistered is returned when a behavior kind is registered twice.
	ErrKindRegistered = errors.New("engine: kind already registered")
	// ErrBadRegistration is returned by Register for an empty kind or nil
	// behavior.
	ErrBadRegistration = errors.New("engine: registration needs a kind and a behavior")
	// ErrUnknownKind is returned by Spawn for a kind with no registered behavior.
	ErrUnknownKind = errors.New("engine: unknown kind")
	// ErrCapacity is returned by Spawn when the configured entity cap is reached.
	ErrCapacity = errors.New("engine: entity capacity exhausted")
	// ErrBadStep is returned by Step for a negative or non-finite dt.
	ErrBadStep = errors.New("engine: step dt must be non-negative and finite")
	// ErrClosed is returned by Step after Shutdown.
	ErrClosed = errors.New("engine: world is shut down")
	// ErrStepping is returned by Step when called reentrantly from a behavior.
	ErrStepping = errors.New("engine: step already in progress")
)
