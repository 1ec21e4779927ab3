package sqlite

// Schema DDL. The database is rebuilt from the JSONL files on every Attach,
// so there are no migrations.
const (
	createRuns = `CREATE TABLE runs (
    run_id TEXT PRIMARY KEY,
    start_digit INTEGER NOT NULL,
    end_digit INTEGER NOT NULL,
    operators TEXT NOT NULL,
    max_bits INTEGER NOT NULL,
    value_count INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createResults = `CREATE TABLE results (
    run_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    value TEXT NOT NULL,
    expression TEXT NOT NULL,
    PRIMARY KEY (run_id, ordinal),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`

	idxRunsCreated  = `CREATE INDEX idx_runs_created ON runs(created_at);`
	idxResultsValue = `CREATE INDEX idx_results_value ON results(value);`
)

// schemaDDL lists the statements Attach executes, tables before indexes.
var schemaDDL = []string{
	createRuns,
	createResults,
	idxRunsCreated,
	idxResultsValue,
}
