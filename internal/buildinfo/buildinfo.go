package buildinfo

import "time"

// TimestampFormat is RFC 3339 with microsecond precision
const TimestampFormat = "2006-01-02T15:04:05.000000Z07:00"

// Info identifies the running process. It is created once at startup and
// passed by value; nothing recomputes it.
type Info struct {
	Version        string
	BuildTimestamp string
}

// New captures version and the given start time
func New(version string, started time.Time) Info {
	if version == "" {
		version = "unknown"
	}
	return Info{
		Version:        version,
		BuildTimestamp: started.UTC().Format(TimestampFormat),
	}
}
