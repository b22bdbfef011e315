// Package maintenance holds the fixed catalog of maintenance durations and
// the captions shown for a metric's maintenance window.
package maintenance

import (
	"fmt"
	"time"
)

// Key identifies a catalog entry.
type Key string

const (
	Off     Key = "off"
	Quarter Key = "quarter"
	Hour    Key = "hour"
	Day     Key = "day"
	Week    Key = "week"
	Month   Key = "month"
)

// Option is one selectable maintenance duration. A zero Duration clears
// the maintenance window instead of extending it.
type Option struct {
	Key      Key
	Caption  string
	Duration time.Duration
}

// Clears reports whether choosing the option removes maintenance.
func (o Option) Clears() bool {
	return o.Duration == 0
}

// UnknownOptionError is returned for keys that are not in the catalog.
type UnknownOptionError struct {
	Key Key
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown maintenance option %q", string(e.Key))
}

var defaultOptions = []Option{
	{Key: Off, Caption: "Off"},
	{Key: Quarter, Caption: "15 min", Duration: 15 * time.Minute},
	{Key: Hour, Caption: "1 hour", Duration: time.Hour},
	{Key: Day, Caption: "1 day", Duration: 24 * time.Hour},
	{Key: Week, Caption: "1 week", Duration: 7 * 24 * time.Hour},
	{Key: Month, Caption: "1 month", Duration: 30 * 24 * time.Hour},
}

// Catalog is an ordered, immutable set of maintenance options.
type Catalog struct {
	options []Option
	byKey   map[Key]int
}

// NewCatalog builds a catalog from options, keeping their order.
// Later duplicates of a key are ignored.
func NewCatalog(options []Option) *Catalog {
	c := &Catalog{byKey: make(map[Key]int, len(options))}
	for _, o := range options {
		if _, dup := c.byKey[o.Key]; dup {
			continue
		}
		c.byKey[o.Key] = len(c.options)
		c.options = append(c.options, o)
	}
	return c
}

var defaultCatalog = NewCatalog(defaultOptions)

// Default returns the standard catalog: off, 15 min, 1 hour, 1 day, 1 week, 1 month.
func Default() *Catalog {
	return defaultCatalog
}

// Options returns the catalog entries in display order. The result is the
// same for every now; the argument leaves room for time-dependent entries.
func (c *Catalog) Options(now time.Time) []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

// Keys returns the option keys in display order.
func (c *Catalog) Keys() []Key {
	keys := make([]Key, len(c.options))
	for i, o := range c.options {
		keys[i] = o.Key
	}
	return keys
}

// Lookup returns the option for key.
func (c *Catalog) Lookup(key Key) (Option, error) {
	i, ok := c.byKey[key]
	if !ok {
		return Option{}, &UnknownOptionError{Key: key}
	}
	return c.options[i], nil
}

// Caption returns the display caption for key.
func (c *Catalog) Caption(key Key) (string, error) {
	o, err := c.Lookup(key)
	if err != nil {
		return "", err
	}
	return o.Caption, nil
}

// ExpiryFor returns the maintenance expiry, in Unix seconds, that choosing
// key at now produces. Clearing options yield 0.
func (c *Catalog) ExpiryFor(key Key, now time.Time) (int64, error) {
	o, err := c.Lookup(key)
	if err != nil {
		return 0, err
	}
	if o.Clears() {
		return 0, nil
	}
	return now.Add(o.Duration).Unix(), nil
}
