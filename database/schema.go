package database

var (
	// headBlockKey tracks the latest applied block header.
	headBlockKey = []byte("LastBlock")

	headerPrefix = []byte("h") // headerPrefix + num (uint64 big endian) -> header
)
