package types

import "time"

// DisasterProfile holds the per-type constants shared between the
// validator, fusion, and downstream visualization sizing: how wide an
// event of this type typically reaches, how long it stays active, which
// official alert names corroborate it, and what to tell people.
type DisasterProfile struct {
	AffectedRadiusKM float64
	ActiveDuration   time.Duration
	AlertNames       []string
	Actions          []string
}

var disasterProfiles = map[DisasterType]DisasterProfile{
	Earthquake: {
		AffectedRadiusKM: 100,
		ActiveDuration:   72 * time.Hour,
		AlertNames:       []string{"Earthquake Warning"},
		Actions: []string{
			"Prepare for aftershocks",
			"Check for structural damage before re-entering buildings",
			"Stay away from damaged areas",
		},
	},
	Tsunami: {
		AffectedRadiusKM: 200,
		ActiveDuration:   24 * time.Hour,
		AlertNames:       []string{"Tsunami Warning", "Tsunami Advisory", "Tsunami Watch"},
		Actions: []string{
			"Move to higher ground immediately",
			"Stay away from the coast until officials give the all-clear",
		},
	},
	Flood: {
		AffectedRadiusKM: 50,
		ActiveDuration:   48 * time.Hour,
		AlertNames:       []string{"Flood Warning", "Flash Flood Warning", "Flood Watch", "Flood Advisory"},
		Actions: []string{
			"Move to higher ground",
			"Do not drive through flooded roads",
			"Avoid walking through moving water",
		},
	},
	Hurricane: {
		AffectedRadiusKM: 300,
		ActiveDuration:   96 * time.Hour,
		AlertNames:       []string{"Hurricane Warning", "Hurricane Watch", "Tropical Storm Warning"},
		Actions: []string{
			"Follow evacuation orders",
			"Secure windows and outdoor objects",
			"Stock water, food and medication",
		},
	},
	Tornado: {
		AffectedRadiusKM: 25,
		ActiveDuration:   6 * time.Hour,
		AlertNames:       []string{"Tornado Warning", "Tornado Watch", "Severe Thunderstorm Warning"},
		Actions: []string{
			"Take shelter in a basement or interior room",
			"Stay away from windows",
		},
	},
	Storm: {
		AffectedRadiusKM: 75,
		ActiveDuration:   24 * time.Hour,
		AlertNames:       []string{"Severe Thunderstorm Warning", "Severe Weather Statement", "High Wind Warning"},
		Actions: []string{
			"Stay indoors and away from windows",
			"Unplug sensitive electronics",
		},
	},
	Wildfire: {
		AffectedRadiusKM: 50,
		ActiveDuration:   168 * time.Hour,
		AlertNames:       []string{"Fire Warning", "Red Flag Warning", "Evacuation Immediate"},
		Actions: []string{
			"Follow evacuation orders immediately",
			"Close windows and doors to keep smoke out",
			"Monitor air quality",
		},
	},
	Volcano: {
		AffectedRadiusKM: 100,
		ActiveDuration:   240 * time.Hour,
		AlertNames:       []string{"Volcano Warning", "Ashfall Advisory"},
		Actions: []string{
			"Follow evacuation orders",
			"Protect against ashfall with masks and sealed windows",
		},
	},
	Landslide: {
		AffectedRadiusKM: 20,
		ActiveDuration:   48 * time.Hour,
		AlertNames:       []string{"Landslide Warning"},
		Actions: []string{
			"Move away from the slide path",
			"Watch for changes in water flow and leaning trees",
		},
	},
	Blizzard: {
		AffectedRadiusKM: 150,
		ActiveDuration:   72 * time.Hour,
		AlertNames:       []string{"Blizzard Warning", "Winter Storm Warning", "Winter Weather Advisory"},
		Actions: []string{
			"Stay off the roads",
			"Keep emergency heating supplies ready",
		},
	},
	Drought: {
		AffectedRadiusKM: 500,
		ActiveDuration:   720 * time.Hour,
		AlertNames:       []string{"Drought Information Statement"},
		Actions: []string{
			"Conserve water",
			"Follow local water-use restrictions",
		},
	},
	Other: {
		AffectedRadiusKM: 50,
		ActiveDuration:   24 * time.Hour,
		Actions: []string{
			"Follow instructions from local authorities",
		},
	},
}

var defaultProfile = DisasterProfile{
	AffectedRadiusKM: 50,
	ActiveDuration:   24 * time.Hour,
	Actions:          []string{"Follow instructions from local authorities"},
}

// ProfileFor returns the profile for a disaster type, falling back to a
// generic profile for unknown types.
func ProfileFor(t DisasterType) DisasterProfile {
	if p, ok := disasterProfiles[t]; ok {
		return p
	}
	return defaultProfile
}
