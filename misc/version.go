// Package misc keeps build time information.
package misc

// Set at link time: -ldflags "-X themer/misc.version=... -X themer/misc.gitHash=...".
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "themer"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
