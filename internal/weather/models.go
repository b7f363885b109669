package weather

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Report is the current-weather payload returned by the remote API.
type Report struct {
	Source      string      `json:"source"`
	Coordinates Coordinates `json:"coordinates"`
	TempC       float64     `json:"tempC"`
	Humidity    float64     `json:"humidity"`
	Description string      `json:"description"`
	FetchedAt   Timestamp   `json:"fetchedAt"`
}

// Observation is the weather stored alongside a history entry.
type Observation struct {
	Source      string    `json:"source"`
	TempC       float64   `json:"tempC"`
	Description string    `json:"description"`
	FetchedAt   Timestamp `json:"fetchedAt"`
}

// HistoryEntry is one past lookup: where, when, and what came back.
// Weather is nil when the service stored no payload for the request.
type HistoryEntry struct {
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	RequestedAt Timestamp    `json:"requestedAt"`
	Weather     *Observation `json:"weather,omitempty"`
}

// HistoryCount is the response to a count=true history request.
type HistoryCount struct {
	Total int `json:"total"`
}
