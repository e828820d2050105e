// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// APIRequest caps a single round trip to the battle API.
const APIRequest = 8 * time.Second

// Webhook caps a single alert delivery.
const Webhook = 10 * time.Second

// Shutdown limits how long servers and exporters wait for in-flight work
// during graceful shutdown.
const Shutdown = 5 * time.Second
