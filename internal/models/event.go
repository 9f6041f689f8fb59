package models

// Event is the envelope broadcast to change subscribers and over SSE.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// PackagesPayload is the data carried by a packages.updated event.
type PackagesPayload struct {
	Country  string    `json:"country"`
	Packages []Package `json:"packages"`
}
