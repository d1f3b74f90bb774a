package persistence

import "context"

// CredentialRepository stores locally registered accounts.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, credential Credential) error
	GetCredential(ctx context.Context, account string) (Credential, error)
	UpdateCredential(ctx context.Context, credential Credential) error
	DeleteCredential(ctx context.Context, account string) error
}

// SnapshotRepository stores serialized store snapshots. SaveSnapshot replaces
// the row for its namespace; GetSnapshot returns ErrNotFound when the
// namespace was never written.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, record SnapshotRecord) error
	GetSnapshot(ctx context.Context, namespace string) (SnapshotRecord, error)
	DeleteSnapshot(ctx context.Context, namespace string) error
}
