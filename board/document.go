// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package board converts circuits to and from plain documents that editors
// and files can hold: JSON, YAML, and compact share codes.
//
package board

import (
	"github.com/db47h/sigsim"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Version is the current document format version.
//
const Version = 1

var validate = validator.New()

// Document is the serialized form of a circuit.
//
type Document struct {
	Version    int         `json:"version" yaml:"version" validate:"min=1"`
	ID         string      `json:"id,omitempty" yaml:"id,omitempty" validate:"omitempty,uuid"`
	Components []Component `json:"components" yaml:"components" validate:"unique=ID,dive"`
	Wires      []Wire      `json:"wires" yaml:"wires" validate:"unique=ID,dive"`
}

// Component is the serialized form of a component: identity, settings and
// placement. Runtime state is not saved.
//
type Component struct {
	ID       string          `json:"id" yaml:"id" validate:"required"`
	Type     string          `json:"type" yaml:"type" validate:"required"`
	Settings sigsim.Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	X        float64         `json:"x" yaml:"x"`
	Y        float64         `json:"y" yaml:"y"`
	Width    float64         `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Height   float64         `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
}

// Wire is the serialized form of a wire.
//
type Wire struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	From    string `json:"from" yaml:"from" validate:"required"`
	FromPin string `json:"fromPin" yaml:"fromPin" validate:"required"`
	To      string `json:"to" yaml:"to" validate:"required"`
	ToPin   string `json:"toPin" yaml:"toPin" validate:"required"`
}

// New returns an empty document with a fresh ID.
//
func New() *Document {
	return &Document{Version: Version, ID: uuid.NewString()}
}

// FromCircuit returns a new document describing c.
//
func FromCircuit(c *sigsim.Circuit) *Document {
	d := New()
	for _, p := range c.Components() {
		d.Components = append(d.Components, Component{
			ID:       p.ID,
			Type:     p.Type,
			Settings: p.Settings.Clone(),
			X:        p.Placement.X,
			Y:        p.Placement.Y,
			Width:    p.Placement.Width,
			Height:   p.Placement.Height,
		})
	}
	for _, w := range c.Wires() {
		d.Wires = append(d.Wires, Wire{ID: w.ID, From: w.FromID, FromPin: w.FromPin, To: w.ToID, ToPin: w.ToPin})
	}
	return d
}

// Validate checks that all records are complete and that IDs are unique.
//
func (d *Document) Validate() error {
	if d == nil {
		return errors.New("nil document")
	}
	if err := validate.Struct(d); err != nil {
		return validationError(err)
	}
	return nil
}

// Build returns a new circuit built from d. Components of a type known to reg
// get the type's default settings, overridden by the saved ones, and are
// initialized to their baseline. Components of unknown types are kept as is.
// ID counters end up past every numeric ID suffix in d.
//
func (d *Document) Build(reg *sigsim.Registry) (*sigsim.Circuit, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	c := sigsim.NewCircuit()
	for _, dc := range d.Components {
		p, err := newComponent(reg, dc)
		if err != nil {
			return nil, err
		}
		if err = c.AddComponent(p); err != nil {
			return nil, errors.Wrap(err, "build circuit")
		}
	}
	for _, dw := range d.Wires {
		w := &sigsim.Wire{ID: dw.ID, FromID: dw.From, FromPin: dw.FromPin, ToID: dw.To, ToPin: dw.ToPin}
		if err := c.AddWire(w); err != nil {
			return nil, errors.Wrap(err, "build circuit")
		}
	}
	return c, nil
}

func newComponent(reg *sigsim.Registry, dc Component) (*sigsim.Component, error) {
	var p *sigsim.Component
	spec, ok := reg.Lookup(dc.Type)
	if ok {
		var err error
		if p, err = reg.NewComponent(dc.ID, dc.Type); err != nil {
			return nil, errors.Wrapf(err, "component %s", dc.ID)
		}
		for k, v := range dc.Settings {
			p.Settings[k] = v
		}
		if spec.Init != nil {
			spec.Init(p)
		}
	} else {
		p = sigsim.NewComponent(dc.ID, dc.Type, dc.Settings)
	}
	p.Placement = sigsim.Placement{X: dc.X, Y: dc.Y, Width: dc.Width, Height: dc.Height}
	return p, nil
}

func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(err, "invalid document")
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return errors.Errorf("invalid document: %s is required", e.Namespace())
	case "unique":
		return errors.Errorf("invalid document: duplicate ID in %s", e.Namespace())
	default:
		return errors.Errorf("invalid document: %s failed %s %s", e.Namespace(), e.Tag(), e.Param())
	}
}
