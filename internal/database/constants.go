package database

// DefaultMinConnections keeps a couple of warm connections so the 2s flush
// cadence never waits on a dial.
const DefaultMinConnections = 2

// Error messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
)

// Log messages
const (
	LogMsgConnectedToDatabase = "Connected to the database"
)
