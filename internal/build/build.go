package build

import "time"

var (
	commit  = ""
	date    = ""
	version = "dev"
	repoURL = "https://github.com/ItsNotGoodName/x-railview"
)

func init() {
	date, _ := time.Parse(time.RFC3339, date)

	Current = Build{
		Commit:    commit,
		Version:   version,
		Date:      date,
		RepoURL:   repoURL,
		CommitURL: repoURL + "/tree/" + commit,
	}
	if commit == "" {
		Current.CommitURL = "#"
	}
}

// BuildNumber is the client build reported during the handshake.
const BuildNumber uint32 = 7601

var Current Build

type Build struct {
	Commit    string    `json:"commit,omitempty"`
	Version   string    `json:"version,omitempty"`
	Date      time.Time `json:"date,omitempty"`
	RepoURL   string    `json:"repo_url,omitempty"`
	CommitURL string    `json:"commit_url,omitempty"`
}
