// Package version carries the build information set by the linker, e.g.
// -ldflags "-X github.com/ocfl-archive/gobook/version.Version=v0.1.0".
package version

import "fmt"

var (
	Version = "dev-0.0.0"
	Commit  = "000000000000000000000000000000000badf00d"
	Date    = "1970-01-01T00:00:01Z"
	BuiltBy = "dev"
)

// ShortCommit returns the first six characters of the commit hash.
func ShortCommit() string {
	if len(Commit) < 6 {
		return Commit
	}
	return Commit[:6]
}

// Info formats all build information in one line.
func Info() string {
	return fmt.Sprintf("%s (commit %s, built %s by %s)", Version, ShortCommit(), Date, BuiltBy)
}
