package harness

import (
	"slices"
	"strconv"
)

// StyleSimple marks a single-pin connector drawn without a pinout table
// (ferrules, splices, ring terminals).
const StyleSimple = "simple"

// ConnectorOptions describes a connector before defaults are applied.
// Nil pointers mean "not specified".
type ConnectorOptions struct {
	Manufacturer string
	MPN          string
	PN           string
	Style        string
	Category     string
	Type         string
	Subtype      string
	PinCount     int
	Notes        string
	Pins         []string
	PinLabels    []string
	Color        string

	ShowName             *bool
	ShowPinCount         *bool
	HideDisconnectedPins bool
	Autogenerate         bool
	Loops                [][2]string
}

// Connector is a plug, receptacle or terminal with an ordered set of pins.
type Connector struct {
	Name         string
	Manufacturer string
	MPN          string
	PN           string
	Style        string
	Category     string
	Type         string
	Subtype      string
	PinCount     int
	Notes        string
	Pins         []string
	PinLabels    []string
	Color        string

	ShowName             bool
	ShowPinCount         bool
	HideDisconnectedPins bool
	Autogenerate         bool
	Loops                [][2]string

	active map[string]bool
}

// NewConnector validates opts and fills in defaults: sequential pin numbers,
// blank labels, and the visibility flags.
func NewConnector(name string, opts ConnectorOptions) (*Connector, error) {
	c := &Connector{
		Name:                 name,
		Manufacturer:         opts.Manufacturer,
		MPN:                  opts.MPN,
		PN:                   opts.PN,
		Style:                opts.Style,
		Category:             opts.Category,
		Type:                 opts.Type,
		Subtype:              opts.Subtype,
		PinCount:             opts.PinCount,
		Notes:                opts.Notes,
		Pins:                 slices.Clone(opts.Pins),
		PinLabels:            slices.Clone(opts.PinLabels),
		Color:                opts.Color,
		HideDisconnectedPins: opts.HideDisconnectedPins,
		Autogenerate:         opts.Autogenerate,
		Loops:                slices.Clone(opts.Loops),
		active:               make(map[string]bool),
	}

	if c.Style == StyleSimple {
		if c.PinCount > 1 {
			return nil, invalid(name, "connectors with style set to simple may only have one pin")
		}
		c.PinCount = 1
	}

	if c.PinCount == 0 {
		c.PinCount = max(len(c.Pins), len(c.PinLabels))
		if c.PinCount == 0 {
			return nil, invalid(name, "specify at least one of pincount, pins or pinlabels")
		}
	}

	if len(c.Pins) > 0 && len(c.PinLabels) > 0 && len(c.Pins) != len(c.PinLabels) {
		return nil, invalid(name, "given pins and pinlabels size mismatch")
	}

	if len(c.Pins) == 0 {
		c.Pins = make([]string, c.PinCount)
		for i := range c.Pins {
			c.Pins[i] = strconv.Itoa(i + 1)
		}
	}
	if len(c.PinLabels) == 0 {
		c.PinLabels = make([]string, len(c.Pins))
	}

	seen := make(map[string]bool, len(c.Pins))
	for _, p := range c.Pins {
		if seen[p] {
			return nil, invalid(name, "pins are not unique")
		}
		seen[p] = true
	}

	labelCount := make(map[string]int, len(c.PinLabels))
	for _, l := range c.PinLabels {
		if l != "" {
			labelCount[l]++
		}
	}
	for _, l := range c.PinLabels {
		if labelCount[l] > 1 && seen[l] {
			return nil, invalid(name, "pin label %q is not unique and also names a pin", l)
		}
	}

	if opts.ShowName != nil {
		c.ShowName = *opts.ShowName
	} else {
		c.ShowName = !c.Autogenerate
	}
	if opts.ShowPinCount != nil {
		c.ShowPinCount = *opts.ShowPinCount
	} else {
		c.ShowPinCount = c.Style != StyleSimple
	}

	for _, loop := range c.Loops {
		for _, p := range loop {
			if !seen[p] {
				return nil, &PinError{Component: name, Pin: p, Err: ErrUnknownPin}
			}
		}
	}

	return c, nil
}

// IsSimple reports whether the connector is drawn without a pin table.
func (c *Connector) IsSimple() bool {
	return c.Style == StyleSimple
}

// ResolvePin maps a pin identifier or pin label to the pin identifier.
func (c *Connector) ResolvePin(token string) (string, error) {
	pinIdx := slices.Index(c.Pins, token)
	labelIdx := -1
	labelCount := 0
	if token != "" {
		for i, l := range c.PinLabels {
			if l == token {
				if labelIdx < 0 {
					labelIdx = i
				}
				labelCount++
			}
		}
	}

	if pinIdx >= 0 && labelIdx >= 0 && pinIdx != labelIdx {
		return "", &PinError{Component: c.Name, Pin: token, Err: ErrConflictingPinReference}
	}
	if labelIdx >= 0 {
		if labelCount > 1 {
			return "", &PinError{Component: c.Name, Pin: token, Err: ErrAmbiguousPinLabel}
		}
		return c.Pins[labelIdx], nil
	}
	if pinIdx < 0 {
		return "", &PinError{Component: c.Name, Pin: token, Err: ErrUnknownPin}
	}
	return token, nil
}

// Activate marks a pin as used by a connection. Activating an active pin is
// a no-op; pins never become inactive again.
func (c *Connector) Activate(pin string) error {
	if !slices.Contains(c.Pins, pin) {
		return &PinError{Component: c.Name, Pin: pin, Err: ErrUnknownPin}
	}
	c.active[pin] = true
	return nil
}

// IsActive reports whether a connection uses the pin.
func (c *Connector) IsActive(pin string) bool {
	return c.active[pin]
}

// ActivePins returns the used pins in pin order.
func (c *Connector) ActivePins() []string {
	var out []string
	for _, p := range c.Pins {
		if c.active[p] {
			out = append(out, p)
		}
	}
	return out
}

// VisiblePins returns the pins drawn in the pinout table, paired with their
// labels.
func (c *Connector) VisiblePins() (pins, labels []string) {
	for i, p := range c.Pins {
		if c.HideDisconnectedPins && !c.active[p] {
			continue
		}
		pins = append(pins, p)
		labels = append(labels, c.PinLabels[i])
	}
	return pins, labels
}
