package store

// schemaSQL is the DDL for the run ledger.
const schemaSQL = `
-- One row per generation run; terminal rows keep the failure cause
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    presentation_id TEXT,
    deck_title TEXT NOT NULL,
    template TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'PENDING',
    slide_count INTEGER DEFAULT 0,
    operation_count INTEGER DEFAULT 0,
    batch_count INTEGER DEFAULT 0,
    batches_submitted INTEGER DEFAULT 0,
    failed_batch_index INTEGER DEFAULT -1,
    uploaded_assets INTEGER DEFAULT 0,
    cause TEXT,
    elapsed_ms INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Source decks with hash-based change detection; a deck may feed
-- several runs (re-generation with a different template)
CREATE TABLE IF NOT EXISTS decks (
    id INTEGER PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    source_path TEXT,
    format TEXT,
    slide_count INTEGER DEFAULT 0,
    content_hash TEXT NOT NULL,
    content JSON,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_decks_run ON decks(run_id);
CREATE INDEX IF NOT EXISTS idx_decks_hash ON decks(content_hash);
`
