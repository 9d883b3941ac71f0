package models

// VideoMode describes one capture mode a frame source can advertise.
type VideoMode struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	Framerate int `json:"framerate"`
}
