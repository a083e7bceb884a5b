// Package version reports the build version of a shellkit program. It is
// the default telemetry service version and is logged when a bootstrap App
// starts its task.
package version
