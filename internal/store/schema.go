package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS structure_index (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    fingerprint          TEXT NOT NULL,
    zone_count           INTEGER NOT NULL,
    encounter_count      INTEGER NOT NULL,
    zones_json           TEXT NOT NULL,
    indexed_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_structure_indexed ON structure_index(indexed_at);
`
