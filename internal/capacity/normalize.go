package capacity

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Raw is an appointment payload as decoded from any API version.
type Raw map[string]any

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Normalize maps a raw payload onto the canonical Appointment.
//
// Current field names win over legacy ones (gymServiceName over serviceName,
// currentBookings over currentParticipants, gymServiceId over serviceId).
// availableSpots and isFull are always derived from maxCapacity and the
// resolved booking count.
func Normalize(r Raw) Appointment {
	booked, ok := intField(r, "currentBookings")
	if !ok {
		booked, _ = intField(r, "currentParticipants")
	}
	maxCap, _ := intField(r, "maxCapacity")

	name := stringField(r, "gymServiceName")
	if name == "" {
		name = stringField(r, "serviceName")
	}

	serviceID, ok := int64Field(r, "gymServiceId")
	if !ok {
		serviceID, _ = int64Field(r, "serviceId")
	}

	a := Appointment{
		StartTime:       timeField(r, "startTime"),
		EndTime:         timeField(r, "endTime"),
		LocationName:    stringField(r, "locationName"),
		ServiceID:       serviceID,
		ServiceName:     name,
		MaxCapacity:     maxCap,
		CurrentBookings: booked,
		CreatedByName:   stringField(r, "createdByName"),
		Active:          r["active"] != false,
		CreatedAt:       timeField(r, "createdAt"),
		UpdatedAt:       timeField(r, "updatedAt"),
	}
	a.ID, _ = int64Field(r, "id")
	a.LocationID, _ = int64Field(r, "locationId")
	a.CreatedByID, _ = int64Field(r, "createdById")

	return derive(a)
}

// NormalizeAll is a batch map over Normalize.
func NormalizeAll(rs []Raw) []Appointment {
	out := make([]Appointment, 0, len(rs))
	for _, r := range rs {
		out = append(out, Normalize(r))
	}
	return out
}

// DecodeAll decodes a JSON array of appointment payloads and normalizes it.
func DecodeAll(data []byte) ([]Appointment, error) {
	var rs []Raw
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	return NormalizeAll(rs), nil
}

// Raw converts a canonical record back to a payload using current field names.
func (a Appointment) Raw() Raw {
	r := Raw{
		"id":              a.ID,
		"locationId":      a.LocationID,
		"locationName":    a.LocationName,
		"gymServiceId":    a.ServiceID,
		"gymServiceName":  a.ServiceName,
		"maxCapacity":     a.MaxCapacity,
		"currentBookings": a.CurrentBookings,
		"availableSpots":  a.AvailableSpots,
		"isFull":          a.IsFull,
		"createdById":     a.CreatedByID,
		"createdByName":   a.CreatedByName,
		"active":          a.Active,
	}
	putTime(r, "startTime", a.StartTime)
	putTime(r, "endTime", a.EndTime)
	putTime(r, "createdAt", a.CreatedAt)
	putTime(r, "updatedAt", a.UpdatedAt)
	return r
}

func derive(a Appointment) Appointment {
	a.AvailableSpots = a.MaxCapacity - a.CurrentBookings
	a.IsFull = a.CurrentBookings >= a.MaxCapacity
	return a
}

func putTime(r Raw, key string, t time.Time) {
	if !t.IsZero() {
		r[key] = t.Format(time.RFC3339Nano)
	}
}

func stringField(r Raw, key string) string {
	s, _ := r[key].(string)
	return s
}

func intField(r Raw, key string) (int, bool) {
	n, ok := int64Field(r, key)
	return int(n), ok
}

func int64Field(r Raw, key string) (int64, bool) {
	switch v := r[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func timeField(r Raw, key string) time.Time {
	s, ok := r[key].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
