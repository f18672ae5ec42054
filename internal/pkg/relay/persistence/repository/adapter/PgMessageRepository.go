package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
	repository "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/persistence/repository/port"
)

// PgMessageRepository archives conversation history in Postgres. An optional
// adapter: the relay's default store is in-memory, but deployments that want
// message history to survive a restart can point DB_URL at a database.
//
// Expected schema:
//
//	CREATE TABLE relay.message (
//	    id                    uuid PRIMARY KEY,
//	    conversation_key      text NOT NULL,
//	    sender_handle         text NOT NULL,
//	    recipient_handle      text NOT NULL,
//	    ciphertext            text NOT NULL,
//	    created_at            timestamptz NOT NULL,
//	    arrival_seq           bigserial,
//	    self_destruct_seconds int NOT NULL DEFAULT 0
//	);
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Ensure interface compliance at compile time
var _ repository.MessageRepository = (*PgMessageRepository)(nil)

func (r *PgMessageRepository) Append(ctx context.Context, m relay.EncryptedMessage) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO relay.message (
			id, conversation_key, sender_handle, recipient_handle, ciphertext, created_at, self_destruct_seconds
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.Conversation(), m.SenderHandle, m.RecipientHandle, m.Ciphertext, m.CreatedAt, m.SelfDestructSecs)
	return err
}

func (r *PgMessageRepository) Remove(ctx context.Context, messageID string) (*relay.EncryptedMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	var m relay.EncryptedMessage
	err := r.pool.QueryRow(ctx, `
		DELETE FROM relay.message
		WHERE id = $1::uuid
		RETURNING id::text, sender_handle, recipient_handle, ciphertext, created_at, self_destruct_seconds
	`, messageID).Scan(&m.ID, &m.SenderHandle, &m.RecipientHandle, &m.Ciphertext, &m.CreatedAt, &m.SelfDestructSecs)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already removed; Remove is idempotent.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgMessageRepository) MessagesFor(ctx context.Context, handle string) ([]relay.EncryptedMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, sender_handle, recipient_handle, ciphertext, created_at, self_destruct_seconds
		FROM relay.message
		WHERE sender_handle = $1 OR recipient_handle = $1
		ORDER BY conversation_key, arrival_seq
	`, handle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []relay.EncryptedMessage
	for rows.Next() {
		var m relay.EncryptedMessage
		if err := rows.Scan(&m.ID, &m.SenderHandle, &m.RecipientHandle, &m.Ciphertext, &m.CreatedAt, &m.SelfDestructSecs); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}
