package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel  string // sets the log level (zap log level values)
	LogFormat string // text vs json
	LogConfig string // path to log config file

	CalcFrequency float64 // spacing of the evaluation grid over normalized race completion
	CalcInterval  float64 // width of the pooling window centered on each grid point
	StatsWorkers  int     // max number of tracks processed concurrently in the stats stage

	CatalogFile      string // path to a track catalog file (session-based series)
	SessionDir       string // directory with archived session documents
	IncludeAllTracks bool   // add the synthetic entry pooling every configured race

	TrackTableFile string // path to a track lookup table file (feed-based series)
	FeedBaseURL    string // base URL for the feed endpoints
	MaxRequests    int    // max attempts per document fetch
	RequestDelay   string // delay between fetch attempts
	FetchPause     string // politeness pause between successive fetches
)
