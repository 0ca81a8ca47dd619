package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exports (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    records              INTEGER NOT NULL,
    ignored              INTEGER NOT NULL,
    parse_errors         INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS samples (
    file_path            TEXT NOT NULL REFERENCES exports(file_path) ON DELETE CASCADE,
    metric               TEXT NOT NULL,
    ts_ns                INTEGER NOT NULL,
    value                REAL NOT NULL,
    source               TEXT
);

CREATE TABLE IF NOT EXISTS workouts (
    file_path            TEXT NOT NULL REFERENCES exports(file_path) ON DELETE CASCADE,
    activity_type        TEXT,
    start_ns             INTEGER NOT NULL,
    end_ns               INTEGER NOT NULL,
    source               TEXT
);

CREATE INDEX IF NOT EXISTS idx_samples_file ON samples(file_path, metric, ts_ns);
CREATE INDEX IF NOT EXISTS idx_workouts_file ON workouts(file_path);
`
