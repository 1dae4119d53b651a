package location

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
)

type fakeSource struct {
	status     location.Authorization
	requested  location.Authorization
	startErr   error
	started    int
	stopped    int
	onFix      func(location.Fix)
	onError    func(error)
	requestLog int
}

func (f *fakeSource) RequestAccess(always bool) location.Authorization {
	f.requestLog++
	f.status = f.requested
	return f.status
}

func (f *fakeSource) Authorization() location.Authorization { return f.status }

func (f *fakeSource) Start(onFix func(location.Fix), onError func(error)) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	f.onFix = onFix
	f.onError = onError
	return nil
}

func (f *fakeSource) Stop() { f.stopped++ }

func waitForEvent(t *testing.T, ch chan location.Event, kind location.EventKind) location.Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event kind %d", kind)
		}
	}
}

func TestRequestPermissionStartsUpdatesWhenGranted(t *testing.T) {
	t.Parallel()

	src := &fakeSource{status: location.AuthorizationNotDetermined, requested: location.AuthorizationGranted}
	svc := NewService(src)

	svc.RequestPermission(true)

	assert.Equal(t, 1, src.requestLog)
	assert.Equal(t, 1, src.started)
	assert.Equal(t, location.AuthorizationGranted, svc.Status())
	assert.True(t, svc.Available())
}

func TestRequestPermissionIsIdempotentAfterGrant(t *testing.T) {
	t.Parallel()

	src := &fakeSource{status: location.AuthorizationGranted}
	svc := NewService(src)

	svc.RequestPermission(true)
	svc.RequestPermission(true)

	assert.Equal(t, 0, src.requestLog, "no new prompt after a grant")
	assert.Equal(t, 2, src.started, "updates restart harmlessly")
}

func TestRequestPermissionDeniedBecomesObservableState(t *testing.T) {
	t.Parallel()

	src := &fakeSource{status: location.AuthorizationDenied}
	svc := NewService(src)

	ch, cancel := svc.Subscribe()
	defer cancel()

	svc.RequestPermission(true)

	ev := waitForEvent(t, ch, location.EventFailure)
	assert.ErrorIs(t, ev.Err, location.ErrPermissionDenied)
	assert.ErrorIs(t, svc.LastError(), location.ErrPermissionDenied)
	assert.False(t, svc.Available())
	assert.Equal(t, 0, src.started)
}

func TestStartUpdatesFailsSilentlyWhenSourceUnavailable(t *testing.T) {
	t.Parallel()

	src := &fakeSource{status: location.AuthorizationGranted, startErr: errors.New("no device")}
	svc := NewService(src)

	svc.StartUpdates()

	assert.False(t, svc.Available())
	assert.ErrorIs(t, svc.LastError(), location.ErrServicesDisabled)
}

func TestFixesArePublishedAndRetained(t *testing.T) {
	t.Parallel()

	src := &fakeSource{status: location.AuthorizationGranted}
	svc := NewService(src)
	svc.StartUpdates()

	ch, cancel := svc.Subscribe()
	defer cancel()

	fix := location.Fix{
		Coordinate:     location.Coordinate{Latitude: 41.0082, Longitude: 28.9784},
		AccuracyMeters: 12,
		Time:           time.Now(),
	}
	src.onFix(fix)

	ev := waitForEvent(t, ch, location.EventFix)
	assert.Equal(t, fix.Coordinate, ev.Fix.Coordinate)

	got, ok := svc.LastKnown()
	require.True(t, ok)
	assert.Equal(t, fix.Coordinate, got.Coordinate)
}

func TestInvalidFixesAreDropped(t *testing.T) {
	t.Parallel()

	src := &fakeSource{status: location.AuthorizationGranted}
	svc := NewService(src)
	svc.StartUpdates()

	src.onFix(location.Fix{Coordinate: location.Coordinate{Latitude: 91, Longitude: 0}})

	_, ok := svc.LastKnown()
	assert.False(t, ok)
}

func TestStopUpdates(t *testing.T) {
	t.Parallel()

	src := &fakeSource{status: location.AuthorizationGranted}
	svc := NewService(src)
	svc.StartUpdates()
	svc.StopUpdates()

	assert.Equal(t, 1, src.stopped)
	assert.False(t, svc.Available())
}
