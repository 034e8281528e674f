package db

type Quote struct {
	RunID     int64
	TableType string
	Position  int64
	Label     string
	Payload   []byte
}

type QuoteRun struct {
	ID        int64
	StartedAt int64
	Missing   string
}
