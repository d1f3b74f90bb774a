package persistence

import "time"

// Credential represents a locally registered account. Accounts signed in via
// an OAuth provider have no credential row.
type Credential struct {
	Account      string
	PasswordHash string
	Nickname     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SnapshotRecord is one persisted store snapshot, keyed by namespace.
type SnapshotRecord struct {
	Namespace string
	Payload   []byte
	UpdatedAt time.Time
}
