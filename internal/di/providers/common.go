// Package providers contains the dependency injection providers for every
// service in the ScriptRoom server.
package providers

import "time"

// shutdownTimeout bounds graceful shutdown of long-lived services.
const shutdownTimeout = 10 * time.Second
