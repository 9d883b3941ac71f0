package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/headsetnav/console/internal/api"
	"github.com/headsetnav/console/internal/config"
	"github.com/headsetnav/console/internal/mainloop"
	"github.com/headsetnav/console/internal/models"
	"github.com/headsetnav/console/internal/registry"
	"github.com/headsetnav/console/internal/storage"
	"github.com/headsetnav/console/internal/stream"
	"github.com/headsetnav/console/internal/telemetry"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// restartExitCode tells the supervisor to relaunch the process.
const restartExitCode = 3

func main() {
	configPath := flag.String("config", "console.yaml", "path to the bootstrap config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Log collector with a console mirror running on its own goroutine
	logs := telemetry.NewLogCollectorWithMirror(func(e models.LogEntry) {
		fmt.Printf("[%s] %s: %s\n", e.Level, e.CallSite, e.Message)
	})
	defer logs.Close()

	// Runtime config: static field table, then the persisted snapshot
	reg := registry.NewDefault()
	store, err := storage.NewStore(cfg.SnapshotPath())
	if err != nil {
		fmt.Printf("Failed to initialize snapshot store: %v\n", err)
		os.Exit(1)
	}
	snap := store.Load()
	applied := reg.ApplyValues(snap.Values)
	logs.Infof("main", "loaded %d persisted config values", applied)

	status := telemetry.NewStatusProvider()

	// Synthetic frame source stands in for the camera pipeline
	maxRate := intValue(reg, "Streaming/maxFrameRate", 20)
	quality := intValue(reg, "Streaming/jpegQuality", 75)
	source := stream.NewSyntheticSource(cfg.Stream.Width, cfg.Stream.Height, maxRate, quality)
	provider := stream.NewProvider()
	provider.SetSource(source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restartRequested := false
	sim := newSimulation(reg, status, source, cfg.Loop.StatusUpdateHz)
	loop := mainloop.NewLoop(time.Duration(cfg.Loop.TickMs)*time.Millisecond, sim.tick)

	developerMode := boolValue(reg, "System/developerMode")

	deps := &api.Dependencies{
		Registry: reg,
		Store:    store,
		Status:   status,
		Logs:     logs,
		Stream:   provider,
		Actions:  loop.Queue(),
		Clients:  api.NewClientTable(),
		RestartAction: func() {
			logs.Info("restart action executing on main loop", "main")
			restartRequested = true
			cancel()
		},
		ResetPoseAction: func() {
			logs.Info("pose reset action executing on main loop", "main")
			sim.resetPose()
		},
		Info: api.ServerInfo{
			AppName:     "headset-nav console",
			Version:     Version,
			Platform:    runtime.GOOS + "/" + runtime.GOARCH,
			DeviceModel: "synthetic",
			InstanceID:  uuid.New().String(),
			ServerPort:  cfg.Server.Port,
		},
		DeveloperMode: developerMode,
		BodyLimit:     cfg.Server.BodyLimit,
		RequestLogs:   cfg.Advanced.EnableRequestLogging,
	}

	server := api.NewServer(cfg.GetServerAddr(), deps)
	if err := server.Start(); err != nil {
		fmt.Printf("Failed to start server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("headset-nav console %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  listening:  http://%s\n", cfg.GetServerAddr())
	fmt.Printf("  snapshot:   %s\n", store.Path())
	fmt.Printf("  dev mode:   %v\n", developerMode)

	// Main loop runs on this goroutine; SIGINT/SIGTERM cancel it
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	loop.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	server.Stop(shutdownCtx)

	if restartRequested {
		os.Exit(restartExitCode)
	}
}

// simulation is the stand-in tracking loop: it walks a pose around the
// origin, drains the battery and feeds the providers the way the real
// tracker would.
type simulation struct {
	reg         *registry.Registry
	status      *telemetry.StatusProvider
	source      *stream.SyntheticSource
	statusEvery time.Duration

	start      time.Time
	lastStatus time.Time
	origin     models.Vector3
	frames     int64
}

func newSimulation(reg *registry.Registry, status *telemetry.StatusProvider, source *stream.SyntheticSource, statusHz int) *simulation {
	if statusHz <= 0 {
		statusHz = 3
	}
	return &simulation{
		reg:         reg,
		status:      status,
		source:      source,
		statusEvery: time.Second / time.Duration(statusHz),
		start:       time.Now(),
	}
}

func (s *simulation) tick(now time.Time) {
	s.source.Advance()
	s.frames++

	if now.Sub(s.lastStatus) < s.statusEvery {
		return
	}
	s.lastStatus = now

	t := now.Sub(s.start).Seconds()
	yaw := math.Mod(t*10, 360)
	fps := 0.0
	if t > 0 {
		fps = float64(s.frames) / t
	}

	s.status.Update(models.StatusSnapshot{
		Position: models.Vector3{
			X: s.origin.X + math.Sin(t/5)*2,
			Y: 1.6,
			Z: s.origin.Z + math.Cos(t/5)*2,
		},
		Rotation:         models.Quaternion{W: math.Cos(yaw * math.Pi / 360), Y: math.Sin(yaw * math.Pi / 360)},
		EulerAngles:      models.EulerAngles{Yaw: yaw},
		IsTracking:       true,
		BatteryLevel:     math.Max(0, 1-t/7200),
		BatteryStatus:    "Discharging",
		NetworkConnected: true,
		IPAddress:        "127.0.0.1",
		TeamNumber:       intValue(s.reg, "Network/teamNumber", 0),
		RobotIPAddress:   stringValue(s.reg, "Network/robotIpAddress"),
		FPS:              fps,
		FrameCount:       s.frames,
		Timestamp:        now.UnixMilli(),
	})
}

func (s *simulation) resetPose() {
	s.origin = models.Vector3{}
	s.start = time.Now()
	s.frames = 0
}

func intValue(reg *registry.Registry, path string, fallback int) int {
	if v, err := reg.GetValue(path); err == nil {
		if n, ok := v.(int64); ok {
			return int(n)
		}
	}
	return fallback
}

func boolValue(reg *registry.Registry, path string) bool {
	if v, err := reg.GetValue(path); err == nil {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func stringValue(reg *registry.Registry, path string) string {
	if v, err := reg.GetValue(path); err == nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
