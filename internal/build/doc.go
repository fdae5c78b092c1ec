// Package build models the build metadata a lifecycle event carries: the
// build's display name, owning project, branch, status, elapsed time,
// committers, related issues, and string parameters.
//
// Builds arrive as JSON documents on the daemon API and are treated as
// read-only inputs for the duration of one event.
package build
