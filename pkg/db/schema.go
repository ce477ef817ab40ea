package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;
PRAGMA mmap_size = 30000000000;

-- Sources table: every page we have sampled, plus last-seen metadata
CREATE TABLE IF NOT EXISTS sources (
    source_id INTEGER PRIMARY KEY AUTOINCREMENT,
    original_url TEXT NOT NULL UNIQUE,
    canonical_url TEXT,
    scheme TEXT NOT NULL,
    domain TEXT NOT NULL,
    path TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    -- Last observed page characteristics
    theme TEXT,                  -- light, dark, unknown
    language TEXT,               -- ISO 639-1 code
    content_hash TEXT,           -- sha256 of the raw HTML
    last_status_code INTEGER,
    last_scraped_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sources_domain ON sources(domain);
CREATE INDEX IF NOT EXISTS idx_sources_canonical ON sources(canonical_url);
CREATE INDEX IF NOT EXISTS idx_sources_theme ON sources(theme);
CREATE INDEX IF NOT EXISTS idx_sources_hash ON sources(content_hash) WHERE content_hash IS NOT NULL;

-- Scrape sessions: tracks each scrape operation with auto-incrementing ID
CREATE TABLE IF NOT EXISTS scrape_sessions (
    session_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    source_count INTEGER NOT NULL,
    success_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    features TEXT,
    session_dir TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scrape_sessions_created ON scrape_sessions(created_at DESC);

-- Session sources: junction table mapping sessions to sources, with the
-- per-source outcome folded in (one row per source per session)
CREATE TABLE IF NOT EXISTS session_sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    source_id INTEGER NOT NULL,
    was_sanitized BOOLEAN DEFAULT FALSE,
    original_url TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    status_code INTEGER,
    error_type TEXT,
    error_message TEXT,
    size_bytes INTEGER,
    color_count INTEGER DEFAULT 0,
    dimension_count INTEGER DEFAULT 0,
    FOREIGN KEY (session_id) REFERENCES scrape_sessions(session_id) ON DELETE CASCADE,
    FOREIGN KEY (source_id) REFERENCES sources(source_id) ON DELETE CASCADE,
    UNIQUE(session_id, source_id)
);

CREATE INDEX IF NOT EXISTS idx_session_sources_session ON session_sources(session_id);
CREATE INDEX IF NOT EXISTS idx_session_sources_source ON session_sources(source_id);
CREATE INDEX IF NOT EXISTS idx_session_sources_sanitized ON session_sources(was_sanitized);

-- Runs: one row per resolution run, keyed by the run UUID
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    session_id INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    source_count INTEGER NOT NULL,
    token_count INTEGER NOT NULL,
    avg_confidence REAL DEFAULT 0,
    warning_count INTEGER DEFAULT 0,
    error_count INTEGER DEFAULT 0,
    output_dir TEXT,
    FOREIGN KEY (session_id) REFERENCES scrape_sessions(session_id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session_id) WHERE session_id IS NOT NULL;

-- Tokens: resolved values per run
CREATE TABLE IF NOT EXISTS tokens (
    token_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    kind TEXT NOT NULL,
    confidence REAL NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, name)
);

CREATE INDEX IF NOT EXISTS idx_tokens_run ON tokens(run_id);
CREATE INDEX IF NOT EXISTS idx_tokens_name ON tokens(name);

-- Diagnostics: resolver warnings and errors per run
CREATE TABLE IF NOT EXISTS diagnostics (
    diagnostic_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    severity TEXT NOT NULL,
    code TEXT NOT NULL,
    message TEXT NOT NULL,
    source TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);
CREATE INDEX IF NOT EXISTS idx_diagnostics_severity ON diagnostics(severity);
`
