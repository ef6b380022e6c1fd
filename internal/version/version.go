package version

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X orgmanager/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "0.1.0"
	Commit    = ""
	BuildTime = ""
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}
}

// String renders the build metadata on one line.
func (i Info) String() string {
	s := "orgmanager " + i.Version
	if i.Commit != "" {
		s += " (" + i.Commit + ")"
	}
	if i.BuildTime != "" {
		s += " built " + i.BuildTime
	}
	return s
}
