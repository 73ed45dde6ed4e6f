package repository

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const ( // Local cache tables for the client side application

	createUsersTable = `
		-- Just to store the current logged-in user
		CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT NOT NULL,
            bio TEXT NOT NULL DEFAULT '',
            avatar_url TEXT NOT NULL DEFAULT '',
            active_status INTEGER NOT NULL DEFAULT 1,
            created_at DATETIME NOT NULL -- DATETIME works as TEXT, INTEGER will not be mapped to time.Time
		);
	`
	createChatHeadsTable = `
		-- Last server snapshot of the conversation list, so it renders before
		-- the socket connects. Pending (unconfirmed) heads are never cached.
		CREATE TABLE IF NOT EXISTS chat_heads (
            id TEXT PRIMARY KEY,
            sender_id TEXT NOT NULL,
            sender_name TEXT NOT NULL,
            sender_avatar TEXT NOT NULL DEFAULT '',
            receiver_id TEXT NOT NULL,
            receiver_name TEXT NOT NULL,
            receiver_avatar TEXT NOT NULL DEFAULT '',
            last_message TEXT NOT NULL DEFAULT '',
            last_message_at TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_chat_heads_last_message_at ON chat_heads(last_message_at DESC);
	`
)

type DB struct {
	*sqlx.DB
}

func OpenDB(filesDir string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := sqlx.ConnectContext(ctx, "sqlite3", filepath.Join(filesDir, "Mingle.db"))
	if err == nil {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxIdleTime(15 * time.Minute)
	}
	if err != nil && db != nil {
		db.Close()
	}
	return &DB{db}, err
}

func DeleteDBFile(filesDir string) error {
	return os.Remove(filepath.Join(filesDir, "Mingle.db"))
}

func (db *DB) RunMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, createUsersTable); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, createChatHeadsTable); err != nil {
		return err
	}
	return nil
}
