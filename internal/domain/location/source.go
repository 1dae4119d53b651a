package location

// Source is the platform binding that produces position fixes. Implementations
// wrap whatever positioning facility the host offers (a gpsd socket, a modem
// NMEA stream, a test fake) so the provider and everything above it stay
// independent of the platform.
type Source interface {
	// RequestAccess asks the platform for permission to read positions and
	// returns the resulting state. Calling it while already granted must be
	// a cheap no-op returning AuthorizationGranted.
	RequestAccess(always bool) Authorization

	// Authorization returns the current permission state without prompting.
	Authorization() Authorization

	// Start begins continuous delivery. Fixes and source-level failures are
	// reported through the callbacks until Stop is called. Start returns an
	// error only when the source cannot be opened at all.
	Start(onFix func(Fix), onError func(error)) error

	// Stop ends delivery. Safe to call when not started.
	Stop()
}
