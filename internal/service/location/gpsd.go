package location

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
)

const (
	gpsdDialTimeout      = 5 * time.Second
	gpsdReconnectBackoff = 3 * time.Second
	gpsdWatchCommand     = `?WATCH={"enable":true,"json":true}` + "\n"
)

// GPSDSource reads position reports from a gpsd daemon over its JSON
// streaming protocol. Authorization maps onto reachability of the daemon:
// a socket we can open is a granted source, one we cannot is a denied one.
type GPSDSource struct {
	addr string

	mu     sync.Mutex
	status location.Authorization
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewGPSDSource creates a source for the gpsd daemon at addr
// (host:port, conventionally localhost:2947).
func NewGPSDSource(addr string) *GPSDSource {
	return &GPSDSource{
		addr:   addr,
		status: location.AuthorizationNotDetermined,
	}
}

// RequestAccess probes the daemon once and records the resulting state.
func (g *GPSDSource) RequestAccess(always bool) location.Authorization {
	conn, err := net.DialTimeout("tcp", g.addr, gpsdDialTimeout)
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.status = location.AuthorizationDenied
		slog.Warn("gpsd unreachable", "addr", g.addr, "error", err)
		return g.status
	}
	conn.Close()
	g.status = location.AuthorizationGranted
	return g.status
}

// Authorization returns the last probed state.
func (g *GPSDSource) Authorization() location.Authorization {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Start begins streaming TPV reports; reconnects with backoff until Stop.
func (g *GPSDSource) Start(onFix func(location.Fix), onError func(error)) error {
	g.mu.Lock()
	if g.stop != nil {
		g.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	g.stop = stop
	g.mu.Unlock()

	g.wg.Add(1)
	go g.run(stop, onFix, onError)
	return nil
}

// Stop ends streaming and waits for the reader to exit.
func (g *GPSDSource) Stop() {
	g.mu.Lock()
	if g.stop == nil {
		g.mu.Unlock()
		return
	}
	close(g.stop)
	g.stop = nil
	g.mu.Unlock()
	g.wg.Wait()
}

func (g *GPSDSource) run(stop chan struct{}, onFix func(location.Fix), onError func(error)) {
	defer g.wg.Done()
	for {
		if err := g.stream(stop, onFix); err != nil {
			onError(fmt.Errorf("gpsd stream: %w", err))
		}
		select {
		case <-stop:
			return
		case <-time.After(gpsdReconnectBackoff):
		}
	}
}

// tpvReport is gpsd's time-position-velocity class. Mode 2 is a 2D fix.
type tpvReport struct {
	Class string    `json:"class"`
	Mode  int       `json:"mode"`
	Time  time.Time `json:"time"`
	Lat   float64   `json:"lat"`
	Lon   float64   `json:"lon"`
	EPH   float64   `json:"eph"`
}

func (g *GPSDSource) stream(stop chan struct{}, onFix func(location.Fix)) error {
	conn, err := net.DialTimeout("tcp", g.addr, gpsdDialTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", g.addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(gpsdWatchCommand)); err != nil {
		return fmt.Errorf("enable watch: %w", err)
	}

	// Closing the socket from a watcher goroutine unblocks the scanner.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-stop:
			conn.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for scanner.Scan() {
		var report tpvReport
		if err := json.Unmarshal(scanner.Bytes(), &report); err != nil {
			continue
		}
		if report.Class != "TPV" || report.Mode < 2 {
			continue
		}
		ts := report.Time
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		onFix(location.Fix{
			Coordinate: location.Coordinate{
				Latitude:  report.Lat,
				Longitude: report.Lon,
			},
			AccuracyMeters: report.EPH,
			Time:           ts,
		})
	}

	select {
	case <-stop:
		return nil
	default:
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("connection closed by %s", g.addr)
}
