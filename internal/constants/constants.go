package constants

import "time"

const (
	BaseURL     = "https://www.vlr.gg"
	SourceTZ    = "America/New_York"
	DateLayout  = "2006-01-02 15:04:05"
	UserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	RosterSize  = 5
	TeamsPerMap = 2
)

// TeamMatchesPageSize is how many match cards a team's history page shows.
const TeamMatchesPageSize = 50

const (
	FetchDelay        = 1 * time.Second
	FetchTimeout      = 20 * time.Second
	FetchMaxAttempts  = 3
	FetchMaxRedirects = 5
	FetchMaxConns     = 4
	FetchIdleConn     = 1 * time.Minute
)

const (
	CrawlWorkers   = 4
	CrawlTimeout   = 2 * time.Hour
	IngestTimeout  = 30 * time.Second
	RequestTimeout = 10 * time.Second
)

const (
	DBMaxOpenConns    = 16
	DBMaxIdleConns    = 4
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
