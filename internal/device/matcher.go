package device

import (
	"regexp"
	"sync"
	"time"
)

// carNamePatterns is the ordered rule table for name-based classification.
// A manual tag is always checked before these rules run.
var carNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcar\b`),
	regexp.MustCompile(`(?i)\bauto\b`),
	regexp.MustCompile(`(?i)carplay`),
	regexp.MustCompile(`(?i)hands[- ]?free`),
	regexp.MustCompile(`(?i)\bsync\b`),
	regexp.MustCompile(`(?i)toyota|honda|ford|bmw|mercedes|audi|tesla|volkswagen`),
	regexp.MustCompile(`(?i)hyundai|kia|nissan|chevrolet|subaru|mazda|volvo`),
	regexp.MustCompile(`(?i)lexus|jeep|porsche|skoda|renault|peugeot`),
}

// Matcher classifies Bluetooth devices as car-like. The tag map has its
// own lock so manual tagging may run concurrently with event processing;
// tags only affect future classifications, never session state.
type Matcher struct {
	mu     sync.RWMutex
	tagged map[string]CarDevice
	now    func() time.Time
}

func NewMatcher() *Matcher {
	return &Matcher{tagged: map[string]CarDevice{}, now: time.Now}
}

// IsCarDevice reports whether the device should be treated as a car.
// A manual tag for the device id wins unconditionally; untagged devices
// fall back to the name pattern rules.
func (m *Matcher) IsCarDevice(d Device) bool {
	m.mu.RLock()
	_, tagged := m.tagged[d.ID]
	m.mu.RUnlock()
	if tagged {
		return true
	}
	return MatchesCarPattern(d.Name)
}

// MatchesCarPattern runs the static rule table against a device name.
func MatchesCarPattern(name string) bool {
	for _, p := range carNamePatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// TagAsCarDevice inserts or overwrites a manual tag for the device.
func (m *Matcher) TagAsCarDevice(d Device) CarDevice {
	tag := CarDevice{
		ID:        d.ID,
		Name:      d.Name,
		Origin:    OriginManual,
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	m.tagged[d.ID] = tag
	m.mu.Unlock()
	return tag
}

// UntagCarDevice removes a manual tag and reports whether one existed.
func (m *Matcher) UntagCarDevice(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.tagged[id]
	if ok {
		delete(m.tagged, id)
	}
	return ok
}

// LoadTags seeds the tag map, typically from the store at startup.
func (m *Matcher) LoadTags(devices []CarDevice) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range devices {
		m.tagged[d.ID] = d
	}
}

// MarkConnected stamps the last connection time on a tagged device.
func (m *Matcher) MarkConnected(id string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tag, ok := m.tagged[id]; ok {
		tag.LastConnected = &at
		m.tagged[id] = tag
	}
}

// Tagged returns a copy of all tagged devices.
func (m *Matcher) Tagged() []CarDevice {
	m.mu.RLock()
	defer m.mu.RUnlock()

	devices := make([]CarDevice, 0, len(m.tagged))
	for _, d := range m.tagged {
		devices = append(devices, d)
	}
	return devices
}
