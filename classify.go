package adtpulse

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// SensorCategory is the semantic classification of a zone, derived from the
// tag set the portal reports for it.
type SensorCategory uint8

const (
	CategoryGeneric SensorCategory = iota
	CategoryDoor
	CategoryWindow
	CategoryMotion
	CategorySmoke
	CategoryTamper
	CategoryCarbonMonoxide
	CategoryHeat
	CategoryMoisture
	CategoryGarageDoor
)

func (c SensorCategory) String() string {
	switch c {
	case CategoryDoor:
		return "door"
	case CategoryWindow:
		return "window"
	case CategoryMotion:
		return "motion"
	case CategorySmoke:
		return "smoke"
	case CategoryTamper:
		return "tamper"
	case CategoryCarbonMonoxide:
		return "carbon_monoxide"
	case CategoryHeat:
		return "heat"
	case CategoryMoisture:
		return "moisture"
	case CategoryGarageDoor:
		return "garage_door"
	default:
		return "generic"
	}
}

// tagSensor marks a zone as classifiable at all. Zones without it are
// mis-tagged and must be rejected, not defaulted.
const tagSensor = "sensor"

// categoryTable is scanned in order; the first entry whose tag is present
// wins, regardless of tag order in the zone's tag set.
var categoryTable = []struct {
	tag      string
	category SensorCategory
}{
	{"doorWindow", CategoryDoor},
	{"motion", CategoryMotion},
	{"smoke", CategorySmoke},
	{"glass", CategoryTamper},
	{"co", CategoryCarbonMonoxide},
	{"fire", CategoryHeat},
	{"flood", CategoryMoisture},
	{"garage", CategoryGarageDoor},
}

// ClassificationError is returned for zones whose tag set carries no
// "sensor" marker. The offending zone is skipped, never silently defaulted.
type ClassificationError struct {
	Zone string
	Tags []string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unsupported sensor tags for zone %q: %v", e.Zone, e.Tags)
}

// Classify resolves the sensor category for a zone from its tags and display
// name. Pulse does not separate door from window sensors, so door sensors
// whose name mentions "window" are upgraded to CategoryWindow. Zones with a
// "sensor" tag but no specific match classify as CategoryGeneric.
func Classify(tags []string, name string) (SensorCategory, error) {
	if !slices.Contains(tags, tagSensor) {
		return CategoryGeneric, &ClassificationError{Zone: name, Tags: tags}
	}
	category := CategoryGeneric
	for _, entry := range categoryTable {
		if slices.Contains(tags, entry.tag) {
			category = entry.category
			break
		}
	}
	if category == CategoryDoor && strings.Contains(strings.ToLower(name), "window") {
		category = CategoryWindow
	}
	return category, nil
}

type iconPair struct {
	active   string
	inactive string
}

// Window and carbon monoxide sensors have a single icon regardless of
// activity. Everything else has an active and an inactive variant.
var iconTable = map[SensorCategory]iconPair{
	CategoryDoor:           {"mdi:door-open", "mdi:door"},
	CategoryWindow:         {"mdi:window-closed-variant", "mdi:window-closed-variant"},
	CategoryMotion:         {"mdi:run-fast", "mdi:motion-sensor"},
	CategorySmoke:          {"mdi:fire", "mdi:smoke-detector"},
	CategoryTamper:         {"mdi:shield-alert", "mdi:shield-check"},
	CategoryCarbonMonoxide: {"mdi:molecule-co", "mdi:molecule-co"},
	CategoryHeat:           {"mdi:fire-alert", "mdi:heat-wave"},
	CategoryMoisture:       {"mdi:water-alert", "mdi:water-check"},
	CategoryGarageDoor:     {"mdi:garage-open", "mdi:garage"},
	CategoryGeneric:        {"mdi:checkbox-marked-circle", "mdi:checkbox-blank-circle-outline"},
}

// Icon returns the presentation icon for the category given the zone's
// current activity.
func (c SensorCategory) Icon(active bool) string {
	pair, ok := iconTable[c]
	if !ok {
		pair = iconTable[CategoryGeneric]
	}
	if active {
		return pair.active
	}
	return pair.inactive
}
