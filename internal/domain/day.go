package domain

// DayState holds every per-date record that is not an execution entry.
type DayState struct {
	SchemaVersion int                   `json:"schemaVersion"`
	Duplicates    []Marker              `json:"duplicatedInstances"`
	Deletions     []DeletionMarker      `json:"deletedInstances"`
	Hidden        []Marker              `json:"hiddenRoutines"`
	Orders        map[string]SavedOrder `json:"orders"`
}

// NewDayState returns an empty day state.
func NewDayState() *DayState {
	return &DayState{Orders: map[string]SavedOrder{}}
}

// HasLegacyMarkers reports whether any marker was decoded from the legacy form.
func (d *DayState) HasLegacyMarkers() bool {
	for _, m := range d.Duplicates {
		if m.Kind == MarkerLegacy {
			return true
		}
	}
	for _, m := range d.Deletions {
		if m.Kind == MarkerLegacy {
			return true
		}
	}
	for _, m := range d.Hidden {
		if m.Kind == MarkerLegacy {
			return true
		}
	}
	return false
}

// IsPermanentlyDeleted reports a path-scoped permanent deletion for path.
func (d *DayState) IsPermanentlyDeleted(path string) bool {
	for _, m := range d.Deletions {
		if m.Type == DeletionPermanent && m.PathScoped() && m.Path == path {
			return true
		}
	}
	return false
}

// IsHiddenTemplate reports a path-scoped hidden marker for path.
func (d *DayState) IsHiddenTemplate(path string) bool {
	for _, m := range d.Hidden {
		if m.PathScoped() && m.Path == path {
			return true
		}
	}
	return false
}

// Suppresses reports whether a deletion or hidden marker removes the instance
// with the given id. Instance-scoped markers match by id. Path-scoped
// temporary deletions only apply to the primary occurrence, never to duplicates.
func (d *DayState) Suppresses(path, instanceID string, duplicate bool) bool {
	for _, m := range d.Deletions {
		if m.InstanceID != "" && m.InstanceID == instanceID {
			return true
		}
		if m.PathScoped() && m.Path == path && !duplicate {
			return true
		}
	}
	for _, m := range d.Hidden {
		if m.InstanceID != "" && m.InstanceID == instanceID {
			return true
		}
	}
	return false
}

// SuppressesID reports whether an instance-scoped deletion or hidden marker
// names instanceID. Path-scoped markers are ignored.
func (d *DayState) SuppressesID(instanceID string) bool {
	if instanceID == "" {
		return false
	}
	for _, m := range d.Deletions {
		if m.InstanceID == instanceID {
			return true
		}
	}
	for _, m := range d.Hidden {
		if m.InstanceID == instanceID {
			return true
		}
	}
	return false
}

// IsDuplicateID reports whether instanceID belongs to a duplicate marker.
func (d *DayState) IsDuplicateID(instanceID string) bool {
	if instanceID == "" {
		return false
	}
	for _, m := range d.Duplicates {
		if m.InstanceID == instanceID {
			return true
		}
	}
	return false
}

// DuplicatesOf returns the duplicate markers for path in insertion order.
func (d *DayState) DuplicatesOf(path string) []Marker {
	var out []Marker
	for _, m := range d.Duplicates {
		if m.Path == path {
			out = append(out, m)
		}
	}
	return out
}

// AddDuplicate records a new duplicate occurrence.
func (d *DayState) AddDuplicate(path, instanceID string) {
	d.Duplicates = append(d.Duplicates, InstanceMarker(path, instanceID))
}

// RemoveDuplicate drops the duplicate marker for instanceID.
func (d *DayState) RemoveDuplicate(instanceID string) {
	out := d.Duplicates[:0]
	for _, m := range d.Duplicates {
		if m.InstanceID != instanceID {
			out = append(out, m)
		}
	}
	d.Duplicates = out
}

// AddDeletion records a deletion marker, skipping exact repeats.
func (d *DayState) AddDeletion(m DeletionMarker) {
	for _, existing := range d.Deletions {
		if existing.Path == m.Path && existing.InstanceID == m.InstanceID && existing.Type == m.Type {
			return
		}
	}
	d.Deletions = append(d.Deletions, m)
}

// AddHidden records a hidden marker, skipping exact repeats.
func (d *DayState) AddHidden(m Marker) {
	for _, existing := range d.Hidden {
		if existing.Path == m.Path && existing.InstanceID == m.InstanceID {
			return
		}
	}
	d.Hidden = append(d.Hidden, m)
}
