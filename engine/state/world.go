package state

import (
	"time"

	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/types"
)

// GameTime is the in-game calendar.
type GameTime struct {
	Hour, Minute, Day, Month uint8
	Year                     uint16
}

// PendingZone is the destination of an approved zone change.
type PendingZone struct {
	ZoneID           uint16
	X, Y, Z, Heading float32
}

// WorldState tracks the current zone, time, weather and zoning handshake.
type WorldState struct {
	bus *events.Bus

	zoneName     string
	zoneID       uint16
	loading      bool
	loadProgress float32
	loadStatus   string

	time             GameTime
	weather          types.Weather
	weatherIntensity uint8

	zoneLineTriggered bool
	zoneLineTime      time.Time
	lastCheckX        float32
	lastCheckY        float32
	lastCheckZ        float32

	pending         PendingZone
	changeRequested bool
	changeApproved  bool
	zoning          bool
	zoneConnected   bool
	clientReady     bool
}

func NewWorldState() *WorldState {
	return &WorldState{time: GameTime{Hour: 12, Day: 1, Month: 1, Year: 3100}}
}

func (w *WorldState) SetEventBus(bus *events.Bus) { w.bus = bus }

func (w *WorldState) ZoneName() string    { return w.zoneName }
func (w *WorldState) ZoneID() uint16      { return w.zoneID }
func (w *WorldState) SetZoneID(id uint16) { w.zoneID = id }

// SetZoneName publishes ZoneChanged when the name changes.
func (w *WorldState) SetZoneName(name string) {
	if w.zoneName == name {
		return
	}
	w.zoneName = name
	w.fireZoneChanged(events.ZoneChanged)
}

// SetZone publishes ZoneChanged when either the name or id changes.
func (w *WorldState) SetZone(name string, id uint16) {
	changed := w.zoneName != name || w.zoneID != id
	w.zoneName, w.zoneID = name, id
	if changed {
		w.fireZoneChanged(events.ZoneChanged)
	}
}

func (w *WorldState) IsZoneLoading() bool       { return w.loading }
func (w *WorldState) SetZoneLoading(v bool)     { w.loading = v }
func (w *WorldState) ZoneLoadProgress() float32 { return w.loadProgress }
func (w *WorldState) ZoneLoadStatus() string    { return w.loadStatus }

// SetZoneLoadProgress always publishes ZoneLoading. An empty status keeps
// the previous one.
func (w *WorldState) SetZoneLoadProgress(progress float32, status string) {
	w.loadProgress = progress
	if status != "" {
		w.loadStatus = status
	}
	w.bus.PublishData(events.ZoneLoading, events.ZoneLoadingData{
		ZoneName: w.zoneName,
		ZoneID:   w.zoneID,
		Progress: progress,
		Status:   w.loadStatus,
	})
}

// MarkZoneLoaded finishes loading and publishes ZoneLoaded.
func (w *WorldState) MarkZoneLoaded() {
	w.loading = false
	w.loadProgress = 1
	w.fireZoneChanged(events.ZoneLoaded)
}

func (w *WorldState) Time() GameTime { return w.time }

// SetTime publishes TimeOfDayChanged when any field changes.
func (w *WorldState) SetTime(t GameTime) {
	if w.time == t {
		return
	}
	w.time = t
	w.bus.PublishData(events.TimeOfDayChanged, events.TimeOfDayChangedData{
		Hour:   t.Hour,
		Minute: t.Minute,
		Day:    t.Day,
		Month:  t.Month,
		Year:   t.Year,
	})
}

// SetTimeOfDay changes only the clock.
func (w *WorldState) SetTimeOfDay(hour, minute uint8) {
	t := w.time
	t.Hour, t.Minute = hour, minute
	w.SetTime(t)
}

func (w *WorldState) IsNight() bool { return w.time.Hour < 6 || w.time.Hour >= 20 }
func (w *WorldState) IsDay() bool   { return !w.IsNight() }

func (w *WorldState) Weather() types.Weather      { return w.weather }
func (w *WorldState) SetWeather(v types.Weather)  { w.weather = v }
func (w *WorldState) WeatherIntensity() uint8     { return w.weatherIntensity }
func (w *WorldState) SetWeatherIntensity(v uint8) { w.weatherIntensity = v }

// Zone line detection

func (w *WorldState) ZoneLineTriggered() bool            { return w.zoneLineTriggered }
func (w *WorldState) SetZoneLineTriggered(v bool)        { w.zoneLineTriggered = v }
func (w *WorldState) ZoneLineTriggerTime() time.Time     { return w.zoneLineTime }
func (w *WorldState) SetZoneLineTriggerTime(t time.Time) { w.zoneLineTime = t }

func (w *WorldState) LastZoneCheckPosition() (float32, float32, float32) {
	return w.lastCheckX, w.lastCheckY, w.lastCheckZ
}

func (w *WorldState) SetLastZoneCheckPosition(x, y, z float32) {
	w.lastCheckX, w.lastCheckY, w.lastCheckZ = x, y, z
}

// Zone transition handshake

func (w *WorldState) PendingZone() PendingZone     { return w.pending }
func (w *WorldState) SetPendingZone(p PendingZone) { w.pending = p }
func (w *WorldState) ClearPendingZone()            { w.pending = PendingZone{} }
func (w *WorldState) HasPendingZone() bool         { return w.pending.ZoneID != 0 }

func (w *WorldState) ZoneChangeRequested() bool     { return w.changeRequested }
func (w *WorldState) SetZoneChangeRequested(v bool) { w.changeRequested = v }
func (w *WorldState) ZoneChangeApproved() bool      { return w.changeApproved }
func (w *WorldState) SetZoneChangeApproved(v bool)  { w.changeApproved = v }
func (w *WorldState) IsZoning() bool                { return w.zoning }
func (w *WorldState) SetZoning(v bool)              { w.zoning = v }

func (w *WorldState) IsZoneConnected() bool   { return w.zoneConnected }
func (w *WorldState) SetZoneConnected(v bool) { w.zoneConnected = v }
func (w *WorldState) IsClientReady() bool     { return w.clientReady }
func (w *WorldState) SetClientReady(v bool)   { w.clientReady = v }

// IsFullyZonedIn requires both the zone connection and client readiness.
func (w *WorldState) IsFullyZonedIn() bool { return w.zoneConnected && w.clientReady }

// ResetZoneState clears the zoning handshake and connection flags. The
// zone name, time and weather are kept.
func (w *WorldState) ResetZoneState() {
	w.zoneLineTriggered = false
	w.changeRequested = false
	w.changeApproved = false
	w.zoning = false
	w.pending = PendingZone{}
	w.zoneConnected = false
	w.clientReady = false
	w.loading = false
	w.loadProgress = 0
	w.loadStatus = ""
}

func (w *WorldState) fireZoneChanged(t events.Type) {
	w.bus.PublishData(t, events.ZoneChangedData{
		ZoneName: w.zoneName,
		ZoneID:   w.zoneID,
		X:        w.pending.X,
		Y:        w.pending.Y,
		Z:        w.pending.Z,
		Heading:  w.pending.Heading,
	})
}
