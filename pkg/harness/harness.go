// Package harness models a wiring harness: connectors, cables, and the
// per-wire connections between them.
//
// A Harness is assembled first (AddConnector, AddCable, Connect) and is then
// read by the diagram builder and the BOM aggregator. Connect validates pin
// references eagerly, so a harness that assembled without error can always
// be drawn.
package harness

import (
	"fmt"
	"slices"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
)

// AdditionalItem is a free-form BOM entry (heat shrink, labels, tools...).
type AdditionalItem struct {
	Description  string
	Qty          float64
	Unit         string
	Designators  []string
	Manufacturer string
	MPN          string
	PN           string
}

// Harness owns the connectors and cables of one drawing.
type Harness struct {
	// ColorMode selects how wire colors are written in cable labels.
	ColorMode colors.Mode

	connectors     map[string]*Connector
	connectorOrder []string
	cables         map[string]*Cable
	cableOrder     []string
	extras         []AdditionalItem
}

// New returns an empty harness using short color codes.
func New() *Harness {
	return &Harness{
		ColorMode:  colors.ModeShort,
		connectors: make(map[string]*Connector),
		cables:     make(map[string]*Cable),
	}
}

// AddConnector creates and registers a connector.
func (h *Harness) AddConnector(name string, opts ConnectorOptions) (*Connector, error) {
	if err := h.checkName(name); err != nil {
		return nil, err
	}
	c, err := NewConnector(name, opts)
	if err != nil {
		return nil, err
	}
	h.connectors[name] = c
	h.connectorOrder = append(h.connectorOrder, name)
	return c, nil
}

// AddCable creates and registers a cable.
func (h *Harness) AddCable(name string, opts CableOptions) (*Cable, error) {
	if err := h.checkName(name); err != nil {
		return nil, err
	}
	c, err := NewCable(name, opts)
	if err != nil {
		return nil, err
	}
	h.cables[name] = c
	h.cableOrder = append(h.cableOrder, name)
	return c, nil
}

// AddBOMItem appends a free-form BOM entry.
func (h *Harness) AddBOMItem(item AdditionalItem) {
	item.Designators = slices.Clone(item.Designators)
	h.extras = append(h.extras, item)
}

func (h *Harness) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty designator", ErrInvalidComponent)
	}
	_, isConn := h.connectors[name]
	_, isCable := h.cables[name]
	if isConn || isCable {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	return nil
}

// Connect runs one conductor of cable viaName from fromName:fromPin to
// toName:toPin. Either end may be left empty. Pin tokens may be pin
// identifiers or pin labels; labels are resolved to identifiers before the
// connection is stored.
//
// All references are validated before the harness is modified.
func (h *Harness) Connect(fromName, fromPin, viaName string, via Port, toName, toPin string) error {
	cable, ok := h.cables[viaName]
	if !ok {
		return fmt.Errorf("%w: cable %s", ErrUnknownComponent, viaName)
	}
	if !cable.ValidPort(via) {
		return fmt.Errorf("%w: %s:%s (cable has %d wires, shield=%t)",
			ErrInvalidWirePort, viaName, via, cable.WireCount, cable.Shield)
	}

	fromConn, fromResolved, err := h.resolveEnd(fromName, fromPin)
	if err != nil {
		return err
	}
	toConn, toResolved, err := h.resolveEnd(toName, toPin)
	if err != nil {
		return err
	}

	cable.Connections = append(cable.Connections, Connection{
		FromName: fromName,
		FromPin:  fromResolved,
		ViaName:  viaName,
		ViaPort:  via,
		ToName:   toName,
		ToPin:    toResolved,
	})
	if fromConn != nil {
		fromConn.active[fromResolved] = true
	}
	if toConn != nil {
		toConn.active[toResolved] = true
	}
	return nil
}

// ConnectMany connects parallel lists of pins and ports, one conductor per
// position.
func (h *Harness) ConnectMany(fromName string, fromPins []string, viaName string, vias []Port, toName string, toPins []string) error {
	n := len(vias)
	if (fromName != "" && len(fromPins) != n) || (toName != "" && len(toPins) != n) {
		return fmt.Errorf("%w: %s: pin and wire lists differ in length", ErrInvalidComponent, viaName)
	}
	for i, via := range vias {
		var from, to string
		if fromName != "" {
			from = fromPins[i]
		}
		if toName != "" {
			to = toPins[i]
		}
		if err := h.Connect(fromName, from, viaName, via, toName, to); err != nil {
			return err
		}
	}
	return nil
}

func (h *Harness) resolveEnd(name, pin string) (*Connector, string, error) {
	if name == "" {
		return nil, "", nil
	}
	c, ok := h.connectors[name]
	if !ok {
		return nil, "", fmt.Errorf("%w: connector %s", ErrUnknownComponent, name)
	}
	resolved, err := c.ResolvePin(pin)
	if err != nil {
		return nil, "", err
	}
	return c, resolved, nil
}

// Connector returns the named connector, or nil.
func (h *Harness) Connector(name string) *Connector {
	return h.connectors[name]
}

// Cable returns the named cable, or nil.
func (h *Harness) Cable(name string) *Cable {
	return h.cables[name]
}

// Connectors returns all connectors in the order they were added.
func (h *Harness) Connectors() []*Connector {
	out := make([]*Connector, len(h.connectorOrder))
	for i, name := range h.connectorOrder {
		out[i] = h.connectors[name]
	}
	return out
}

// Cables returns all cables in the order they were added.
func (h *Harness) Cables() []*Cable {
	out := make([]*Cable, len(h.cableOrder))
	for i, name := range h.cableOrder {
		out[i] = h.cables[name]
	}
	return out
}

// AdditionalItems returns the free-form BOM entries.
func (h *Harness) AdditionalItems() []AdditionalItem {
	return slices.Clone(h.extras)
}
