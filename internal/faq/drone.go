package faq

// droneEntries is the compiled-in product FAQ used when no catalogue file is
// configured.
var droneEntries = []Entry{
	{
		Question: "What is the flight time of this drone?",
		Answer:   "The drone offers up to 28-32 minutes of continuous flight time per battery, depending on wind and payload.",
		Keywords: []string{"flight", "time", "battery", "minutes", "duration"},
	},
	{
		Question: "What is the maximum range?",
		Answer:   "You can fly the drone up to 6-8 kilometers with a clear line of sight and minimal interference.",
		Keywords: []string{"maximum", "range", "distance", "kilometers", "km"},
	},
	{
		Question: "Does this drone have GPS?",
		Answer:   "Yes, it features built-in GPS + GLONASS for stable hovering, accurate positioning, and automated flight modes.",
		Keywords: []string{"gps", "glonass", "positioning", "navigation"},
	},
	{
		Question: "What camera resolution does it support?",
		Answer:   "The drone comes with a 4K Ultra HD camera (30 fps) with a 3-axis gimbal for smooth and stable footage.",
		Keywords: []string{"camera", "resolution", "4k", "ultra", "hd", "gimbal", "fps"},
	},
	{
		Question: "Is the camera removable or upgradeable?",
		Answer:   "Yes, the camera is removable, and there are upgrade options that are fully compatible with the drone's gimbal system.",
		Keywords: []string{"camera", "removable", "upgradeable", "upgrade", "compatible"},
	},
	{
		Question: "What is the payload capacity?",
		Answer:   "The drone can safely carry up to 500-700 grams without affecting stability.",
		Keywords: []string{"payload", "capacity", "weight", "carry", "grams"},
	},
	{
		Question: "What is the maximum speed?",
		Answer:   "The drone reaches speeds of up to 60 km/h (in Sport Mode).",
		Keywords: []string{"maximum", "speed", "km/h", "sport", "mode"},
	},
	{
		Question: "Is it waterproof or weather-resistant?",
		Answer:   "The drone is weather-resistant (IP43), meaning it can handle light rain and dust, but it is not fully waterproof.",
		Keywords: []string{"waterproof", "weather", "resistant", "rain", "dust", "ip43"},
	},
}

// Drone returns the built-in drone product catalogue.
func Drone() *Catalogue {
	cat, err := NewCatalogue(droneEntries)
	if err != nil {
		// The compiled-in data is validated by tests; this cannot happen at
		// runtime.
		panic(err)
	}
	return cat
}
