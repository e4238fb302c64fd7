// Package version holds the build version, overridable with
// -ldflags "-X github.com/battlesnakeio/snake/version.Version=...".
package version

// Version is the current version of the snake server.
var Version = "dev"
