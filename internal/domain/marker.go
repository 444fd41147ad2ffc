package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

// MarkerKind records which on-disk shape a marker was decoded from.
type MarkerKind int

// Marker kinds. Legacy markers were bare path strings; current markers are
// objects that may carry an instance id.
const (
	MarkerCurrent MarkerKind = iota
	MarkerLegacy
)

// Marker references either a whole template (path-scoped, no instance id) or
// one instance of it. The shape is resolved once at decode time; callers only
// ask PathScoped/Matches and never look at the raw JSON form again.
type Marker struct {
	Kind       MarkerKind `json:"-"`
	Path       string     `json:"path"`
	InstanceID string     `json:"instanceId,omitempty"`
}

// LegacyMarker builds a marker decoded from a bare path string.
func LegacyMarker(path string) Marker {
	return Marker{Kind: MarkerLegacy, Path: path}
}

// InstanceMarker builds a marker scoped to one instance.
func InstanceMarker(path, instanceID string) Marker {
	return Marker{Kind: MarkerCurrent, Path: path, InstanceID: instanceID}
}

// PathMarker builds a marker scoped to the whole template.
func PathMarker(path string) Marker {
	return Marker{Kind: MarkerCurrent, Path: path}
}

// PathScoped reports whether the marker applies to the whole template.
func (m Marker) PathScoped() bool {
	return m.InstanceID == ""
}

// UnmarshalJSON accepts both the legacy string and the current object form.
func (m *Marker) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var path string
		if err := json.Unmarshal(data, &path); err != nil {
			return err
		}
		*m = LegacyMarker(path)
		return nil
	}

	type alias Marker
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Path == "" && a.InstanceID == "" {
		return fmt.Errorf("%w: marker without path or instance id", dperrors.ErrCorruptRecord)
	}
	*m = Marker(a)
	m.Kind = MarkerCurrent
	return nil
}

// DeletionType distinguishes hiding one date's occurrence from removing the task.
type DeletionType string

// Deletion types.
const (
	DeletionTemporary DeletionType = "temporary"
	DeletionPermanent DeletionType = "permanent"
)

// DeletionMarker records a deleted occurrence or template for one date.
type DeletionMarker struct {
	Marker
	Type      DeletionType `json:"deletionType"`
	DeletedAt time.Time    `json:"deletedAt,omitempty"`
}

// UnmarshalJSON accepts legacy path strings, which always meant a permanent
// deletion of the template, and the current object form.
func (d *DeletionMarker) UnmarshalJSON(data []byte) error {
	if err := d.Marker.UnmarshalJSON(data); err != nil {
		return err
	}
	if d.Kind == MarkerLegacy {
		d.Type = DeletionPermanent
		return nil
	}

	var extra struct {
		Type      DeletionType `json:"deletionType"`
		DeletedAt time.Time    `json:"deletedAt"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	d.Type = extra.Type
	if d.Type == "" {
		d.Type = DeletionTemporary
	}
	d.DeletedAt = extra.DeletedAt
	return nil
}

// MarshalJSON always writes the current object form.
func (d DeletionMarker) MarshalJSON() ([]byte, error) {
	type out struct {
		Path       string       `json:"path"`
		InstanceID string       `json:"instanceId,omitempty"`
		Type       DeletionType `json:"deletionType"`
		DeletedAt  *time.Time   `json:"deletedAt,omitempty"`
	}
	o := out{Path: d.Path, InstanceID: d.InstanceID, Type: d.Type}
	if !d.DeletedAt.IsZero() {
		o.DeletedAt = &d.DeletedAt
	}
	return json.Marshal(o)
}
