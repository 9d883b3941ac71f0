package registry

// fields.go - The static field table registered at startup.
//
// This is the single place new configurable values get added. Paths are
// persistence keys: renaming one orphans the saved value (it is skipped
// on load, never fatal, but the field silently reverts to its default).

func bound(v float64) *float64 { return &v }

// DefaultFields returns the descriptor table for the headset tracker.
func DefaultFields() []*FieldDescriptor {
	return []*FieldDescriptor{
		{
			Path:        "Network/teamNumber",
			DisplayName: "Team Number",
			Description: "FRC team number used to locate the robot on the network",
			Category:    "Network",
			Type:        TypeInt,
			ControlHint: "number",
			Min:         bound(0),
			Max:         bound(25599),
			Step:        bound(1),
			Order:       10,
			Default:     0,
		},
		{
			Path:        "Network/robotIpAddress",
			DisplayName: "Robot IP Address",
			Description: "Address of the robot controller; leave empty to derive from the team number",
			Category:    "Network",
			Type:        TypeString,
			ControlHint: "text",
			Order:       11,
			Default:     "",
			Validator:   HostAddressValidator,
		},
		{
			Path:        "Tracking/resetPoseOnStartup",
			DisplayName: "Reset Pose On Startup",
			Description: "Recenter the tracked pose every time the app starts",
			Category:    "Tracking",
			Type:        TypeBool,
			ControlHint: "toggle",
			Order:       20,
			Default:     true,
		},
		{
			Path:        "Tracking/trackingLostThreshold",
			DisplayName: "Tracking Lost Threshold",
			Description: "Consecutive bad frames before tracking is reported lost",
			Category:    "Tracking",
			Type:        TypeInt,
			ControlHint: "slider",
			Min:         bound(1),
			Max:         bound(100),
			Step:        bound(1),
			Order:       21,
			Default:     5,
		},
		{
			Path:        "Display/brightness",
			DisplayName: "Display Brightness",
			Category:    "Display",
			Type:        TypeFloat,
			ControlHint: "slider",
			Min:         bound(0),
			Max:         bound(1),
			Step:        bound(0.05),
			Order:       30,
			Default:     0.8,
		},
		{
			Path:        "Display/overlayColor",
			DisplayName: "Overlay Color",
			Description: "Tint applied to the in-headset diagnostic overlay",
			Category:    "Display",
			Type:        TypeColor,
			ControlHint: "color",
			Order:       31,
			Default:     "#00FF80",
			Validator:   ColorValidator,
		},
		{
			Path:        "Streaming/maxFrameRate",
			DisplayName: "Stream Max Frame Rate",
			Description: "Upper bound on MJPEG frames per second sent to each viewer",
			Category:    "Streaming",
			Type:        TypeInt,
			ControlHint: "slider",
			Min:         bound(1),
			Max:         bound(60),
			Step:        bound(1),
			Order:       40,
			Default:     20,
		},
		{
			Path:        "Streaming/jpegQuality",
			DisplayName: "JPEG Quality",
			Category:    "Streaming",
			Type:        TypeInt,
			ControlHint: "slider",
			Min:         bound(1),
			Max:         bound(100),
			Step:        bound(1),
			Order:       41,
			Default:     75,
		},
		{
			Path:        "System/enableAutoStartOnBoot",
			DisplayName: "Auto-Start On Boot",
			Description: "Launch the tracker automatically after the device boots",
			Category:    "System",
			Type:        TypeBool,
			ControlHint: "toggle",
			Order:       50,
			Default:     true,
		},
		{
			Path:            "System/developerMode",
			DisplayName:     "Developer Mode",
			Description:     "Enables CORS and verbose diagnostics on the config server",
			Category:        "System",
			Type:            TypeBool,
			ControlHint:     "toggle",
			RequiresRestart: true,
			Order:           51,
			Default:         false,
		},
	}
}

// NewDefault builds a registry populated with the default field table.
func NewDefault() *Registry {
	r := New()
	for _, d := range DefaultFields() {
		if err := r.Register(d); err != nil {
			// The table is static; a bad entry is a programming error.
			panic(err)
		}
	}
	return r
}
