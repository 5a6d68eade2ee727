// Package common holds process-wide build information and logger setup
// shared by the binaries.
package common

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/ruteri/interface-registry/common.Version=v1.2.3"
var Version = "dev"

// PackageName is used as the metrics namespace and the default log service tag.
const PackageName = "interface-registry"
