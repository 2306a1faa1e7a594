package db

import (
	"context"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS Users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT UNIQUE NOT NULL,
            password TEXT NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            education TEXT,
            employment TEXT,
            music TEXT,
            movie TEXT,
            nationality TEXT,
            birthday TEXT
        )`,
	`CREATE TABLE IF NOT EXISTS Posts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            u_id INTEGER NOT NULL,
            content TEXT NOT NULL,
            image TEXT,
            creation_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY (u_id) REFERENCES Users(id)
        )`,
	`CREATE TABLE IF NOT EXISTS Comments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            p_id INTEGER NOT NULL,
            u_id INTEGER NOT NULL,
            comment TEXT NOT NULL,
            creation_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY (p_id) REFERENCES Posts(id),
            FOREIGN KEY (u_id) REFERENCES Users(id)
        )`,
	`CREATE TABLE IF NOT EXISTS Friends (
            u_id INTEGER NOT NULL,
            f_id INTEGER NOT NULL,
            PRIMARY KEY (u_id, f_id),
            CHECK (u_id <> f_id),
            FOREIGN KEY (u_id) REFERENCES Users(id),
            FOREIGN KEY (f_id) REFERENCES Users(id)
        )`,
	`CREATE TABLE IF NOT EXISTS Sessions (
            id TEXT PRIMARY KEY,
            u_id INTEGER NOT NULL,
            expires DATETIME NOT NULL,
            FOREIGN KEY (u_id) REFERENCES Users(id)
        )`,
	`CREATE INDEX IF NOT EXISTS idx_posts_u_id ON Posts(u_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_p_id ON Comments(p_id)`,
	`CREATE INDEX IF NOT EXISTS idx_friends_f_id ON Friends(f_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS Users (
            id BIGSERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            password TEXT NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            education TEXT,
            employment TEXT,
            music TEXT,
            movie TEXT,
            nationality TEXT,
            birthday TEXT
        )`,
	`CREATE TABLE IF NOT EXISTS Posts (
            id BIGSERIAL PRIMARY KEY,
            u_id BIGINT NOT NULL REFERENCES Users(id),
            content TEXT NOT NULL,
            image TEXT,
            creation_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
	`CREATE TABLE IF NOT EXISTS Comments (
            id BIGSERIAL PRIMARY KEY,
            p_id BIGINT NOT NULL REFERENCES Posts(id),
            u_id BIGINT NOT NULL REFERENCES Users(id),
            comment TEXT NOT NULL,
            creation_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
	`CREATE TABLE IF NOT EXISTS Friends (
            u_id BIGINT NOT NULL REFERENCES Users(id),
            f_id BIGINT NOT NULL REFERENCES Users(id),
            PRIMARY KEY (u_id, f_id),
            CHECK (u_id <> f_id)
        )`,
	`CREATE TABLE IF NOT EXISTS Sessions (
            id TEXT PRIMARY KEY,
            u_id BIGINT NOT NULL REFERENCES Users(id),
            expires TIMESTAMPTZ NOT NULL
        )`,
	`CREATE INDEX IF NOT EXISTS idx_posts_u_id ON Posts(u_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_p_id ON Comments(p_id)`,
	`CREATE INDEX IF NOT EXISTS idx_friends_f_id ON Friends(f_id)`,
}

// RunMigrations creates the schema if it does not exist yet.
func (r *Repository) RunMigrations(ctx context.Context) error {
	for _, q := range r.dialect.schema {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	return nil
}
