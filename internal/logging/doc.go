// Package logging provides structured logging with per-module log levels.
//
// Records go to stderr as text or JSON, and additionally to the systemd
// journal when journald is reachable. Stdout is left to command output.
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"v4l2":    "debug",
//			"hotplug": "warn",
//		},
//	})
//
// Then take a logger per module:
//
//	logger := logging.GetLogger("scanner")
//	logger.Info("Probed device", "path", "/dev/video0")
//
// Module levels can be changed at runtime with [SetLevels]; the daemon
// does this when its TOML file changes.
//
// Journal entries carry SYSLOG_IDENTIFIER=camscan and every attribute as an
// upper-case field:
//
//	journalctl -t camscan MODULE=daemon
package logging
