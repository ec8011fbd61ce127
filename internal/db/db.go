package db

import (
	"context"
	"errors"
	"fmt"

	"news_podcast/internal/cache"
	"news_podcast/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the subset of pgxpool.Pool used here, so tests can use pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS generations (
    kind       TEXT        NOT NULL,
    cache_key  TEXT        NOT NULL,
    body       TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (kind, cache_key)
);

CREATE TABLE IF NOT EXISTS generation_audio (
    kind       TEXT        NOT NULL,
    cache_key  TEXT        NOT NULL,
    audio      BYTEA       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (kind, cache_key)
);`

// Database инкапсулирует пул соединений к PostgreSQL и хранит кэш генераций.
type Database struct {
	Pool Pool
}

var _ cache.Store = (*Database)(nil)

// NewDB создаёт новый пул соединений по connString и возвращает Database.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return &Database{Pool: pool}, nil
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	db.Pool.Close()
}

// Ping проверяет доступность базы.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate создаёт таблицы кэша, если их ещё нет.
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// GetText возвращает сохранённый сценарий по виду и ключу.
func (db *Database) GetText(ctx context.Context, kind models.Kind, key string) (*cache.Entry, error) {
	var entry cache.Entry
	err := db.Pool.QueryRow(ctx, `
        SELECT body, created_at
        FROM generations
        WHERE kind = $1 AND cache_key = $2
    `, string(kind), key).Scan(&entry.Text, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select generation: %w", err)
	}
	return &entry, nil
}

// PutText сохраняет сценарий; существующая запись перезаписывается.
func (db *Database) PutText(ctx context.Context, kind models.Kind, key string, entry cache.Entry) error {
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO generations (kind, cache_key, body, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (kind, cache_key) DO UPDATE
        SET body = EXCLUDED.body, created_at = EXCLUDED.created_at
    `, string(kind), key, entry.Text, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert generation: %w", err)
	}
	return nil
}

// GetAudio возвращает сохранённый MP3.
func (db *Database) GetAudio(ctx context.Context, kind models.Kind, key string) ([]byte, error) {
	var audio []byte
	err := db.Pool.QueryRow(ctx, `
        SELECT audio FROM generation_audio WHERE kind = $1 AND cache_key = $2
    `, string(kind), key).Scan(&audio)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select audio: %w", err)
	}
	return audio, nil
}

// PutAudio сохраняет MP3; пустой audio удаляет запись.
func (db *Database) PutAudio(ctx context.Context, kind models.Kind, key string, audio []byte) error {
	if len(audio) == 0 {
		if _, err := db.Pool.Exec(ctx, `
            DELETE FROM generation_audio WHERE kind = $1 AND cache_key = $2
        `, string(kind), key); err != nil {
			return fmt.Errorf("delete audio: %w", err)
		}
		return nil
	}

	_, err := db.Pool.Exec(ctx, `
        INSERT INTO generation_audio (kind, cache_key, audio)
        VALUES ($1, $2, $3)
        ON CONFLICT (kind, cache_key) DO UPDATE
        SET audio = EXCLUDED.audio, created_at = NOW()
    `, string(kind), key, audio)
	if err != nil {
		return fmt.Errorf("upsert audio: %w", err)
	}
	return nil
}

// HasAudio сообщает, есть ли MP3 для ключа.
func (db *Database) HasAudio(ctx context.Context, kind models.Kind, key string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM generation_audio WHERE kind = $1 AND cache_key = $2)
    `, string(kind), key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("audio exists: %w", err)
	}
	return exists, nil
}
