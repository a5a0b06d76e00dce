// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/maxvaer/corsprobe/pkg/version.Version=...".
package version

var Version = "dev"
