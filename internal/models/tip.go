package models

type EcoTip struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Weight int    `json:"weight"`
}

// EcoTips is the broadcast catalog; higher weight means picked more often.
var EcoTips = []EcoTip{
	{
		Title:  "Bring a reusable bottle",
		Body:   "A single reusable bottle can replace hundreds of disposable ones per year.",
		Weight: 5,
	},
	{
		Title:  "Cycle or walk short trips",
		Body:   "Trips under 5 km account for a large share of commute emissions.",
		Weight: 5,
	},
	{
		Title:  "Unplug idle chargers",
		Body:   "Phantom load from idle electronics adds up across an office.",
		Weight: 3,
	},
	{
		Title:  "Try a plant-based lunch",
		Body:   "One plant-based meal a week measurably lowers your food footprint.",
		Weight: 3,
	},
	{
		Title:  "Print double-sided",
		Body:   "Default duplex printing halves office paper use.",
		Weight: 2,
	},
	{
		Title:  "Take the stairs",
		Body:   "Elevators are one of a building's hungriest systems during peak hours.",
		Weight: 1,
	},
}
