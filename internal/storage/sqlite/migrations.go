package sqlite

// schema contains the database schema DDL.
const schema = `
-- Devices
CREATE TABLE IF NOT EXISTS devices (
    id TEXT PRIMARY KEY,
    ip TEXT NOT NULL,
    name TEXT,
    type TEXT DEFAULT 'pixoo64',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    last_seen DATETIME
);

-- Persisted display options, JSON encoded
CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Rendered frames keyed by what produced them
CREATE TABLE IF NOT EXISTS frame_cache (
    key TEXT PRIMARY KEY,
    frame_data BLOB NOT NULL,
    content_type TEXT NOT NULL DEFAULT 'image/png',
    generated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_frame_cache_generated ON frame_cache(generated_at);
`
