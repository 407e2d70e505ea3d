package ingest

import (
	"sync"
	"time"

	"github.com/igor-olikh/drive-pilot/internal/detector"
	"github.com/igor-olikh/drive-pilot/internal/device"
	"github.com/igor-olikh/drive-pilot/internal/orchestrator"
)

// LocationPushFeed implements orchestrator.LocationFeed for clients that
// push samples over HTTP. The requested mode is held here for clients to
// poll, since the server cannot reach into the device's GPS.
type LocationPushFeed struct {
	mu       sync.RWMutex
	onSample func(detector.LocationSample)
	mode     orchestrator.FeedMode
	running  bool
}

func NewLocationPushFeed() *LocationPushFeed {
	return &LocationPushFeed{mode: orchestrator.ModeMonitoring}
}

func (f *LocationPushFeed) Subscribe(onSample func(detector.LocationSample)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSample = onSample
}

func (f *LocationPushFeed) SetMode(mode orchestrator.FeedMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = mode
}

func (f *LocationPushFeed) Mode() orchestrator.FeedMode {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mode
}

func (f *LocationPushFeed) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	return nil
}

func (f *LocationPushFeed) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	return nil
}

func (f *LocationPushFeed) Running() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.running
}

// Push delivers one sample to the subscriber. Samples pushed while the
// feed is stopped or unsubscribed are dropped; the return value reports
// whether the sample was delivered.
func (f *LocationPushFeed) Push(sample detector.LocationSample) bool {
	f.mu.RLock()
	onSample := f.onSample
	running := f.running
	f.mu.RUnlock()

	if !running || onSample == nil {
		return false
	}
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = time.Now()
	}
	onSample(sample)
	return true
}

// BluetoothPushFeed implements orchestrator.BluetoothFeed for pushed
// connect/disconnect notifications.
type BluetoothPushFeed struct {
	mu           sync.RWMutex
	onConnect    func(device.Device)
	onDisconnect func(device.Device)
	running      bool
}

func NewBluetoothPushFeed() *BluetoothPushFeed {
	return &BluetoothPushFeed{}
}

func (f *BluetoothPushFeed) Subscribe(onConnect, onDisconnect func(device.Device)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onConnect = onConnect
	f.onDisconnect = onDisconnect
}

func (f *BluetoothPushFeed) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	return nil
}

func (f *BluetoothPushFeed) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	return nil
}

func (f *BluetoothPushFeed) PushConnect(d device.Device) bool {
	f.mu.RLock()
	onConnect := f.onConnect
	running := f.running
	f.mu.RUnlock()

	if !running || onConnect == nil {
		return false
	}
	if d.LastSeen.IsZero() {
		d.LastSeen = time.Now()
	}
	onConnect(d)
	return true
}

func (f *BluetoothPushFeed) PushDisconnect(d device.Device) bool {
	f.mu.RLock()
	onDisconnect := f.onDisconnect
	running := f.running
	f.mu.RUnlock()

	if !running || onDisconnect == nil {
		return false
	}
	if d.LastSeen.IsZero() {
		d.LastSeen = time.Now()
	}
	onDisconnect(d)
	return true
}
