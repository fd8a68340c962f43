package gointl

// Release metadata. GitCommit and BuildDate are set at link time:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gointl.GitCommit=$(git rev-parse HEAD)"
const (
	Name        = "gointl"
	Description = "Cache-fronted langpack store and text resolver"
	Version     = "0.1.0"
	Repository  = "https://github.com/ZaguanLabs/gointl"
	License     = "MIT"
)

var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns Version with the short commit appended when known, e.g. "0.1.0+3f2a9c1".
func FullVersion() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return Version
	}
	short := GitCommit
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + "+" + short
}

// UserAgent is sent with mirror requests.
func UserAgent() string {
	return Name + "/" + FullVersion()
}
