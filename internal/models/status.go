package models

// Vector3 is a position in meters, field coordinate system.
type Vector3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Quaternion is a rotation in headset coordinates.
type Quaternion struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
	W float64 `json:"w" msgpack:"w"`
}

// EulerAngles holds the rotation as pitch/yaw/roll in degrees.
type EulerAngles struct {
	Pitch float64 `json:"pitch" msgpack:"pitch"`
	Yaw   float64 `json:"yaw" msgpack:"yaw"`
	Roll  float64 `json:"roll" msgpack:"roll"`
}

// StatusSnapshot is one complete, consistent telemetry capture. The main
// loop replaces the whole snapshot at once; readers never see a mix of
// old and new fields.
type StatusSnapshot struct {
	Position           Vector3     `json:"position" msgpack:"position"`
	Rotation           Quaternion  `json:"rotation" msgpack:"rotation"`
	EulerAngles        EulerAngles `json:"eulerAngles" msgpack:"eulerAngles"`
	IsTracking         bool        `json:"isTracking" msgpack:"isTracking"`
	TrackingLostEvents int         `json:"trackingLostEvents" msgpack:"trackingLostEvents"`
	BatteryLevel       float64     `json:"batteryLevel" msgpack:"batteryLevel"` // 0..1
	BatteryStatus      string      `json:"batteryStatus" msgpack:"batteryStatus"`
	NetworkConnected   bool        `json:"networkConnected" msgpack:"networkConnected"`
	IPAddress          string      `json:"ipAddress" msgpack:"ipAddress"`
	TeamNumber         int         `json:"teamNumber" msgpack:"teamNumber"`
	RobotIPAddress     string      `json:"robotIpAddress" msgpack:"robotIpAddress"`
	FPS                float64     `json:"fps" msgpack:"fps"`
	FrameCount         int64       `json:"frameCount" msgpack:"frameCount"`
	ConnectedClients   int         `json:"connectedClients" msgpack:"connectedClients"`
	Timestamp          int64       `json:"timestamp" msgpack:"timestamp"` // unix milliseconds
}
