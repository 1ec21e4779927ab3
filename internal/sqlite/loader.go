package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
)

var errMissingRunID = errors.New("missing run_id")

// jsonlSource maps a JSONL file onto an insert statement. row decodes one
// record into statement arguments; records it cannot decode are skipped.
type jsonlSource struct {
	file   string
	insert string
	row    func(json.RawMessage) ([]any, error)
}

// jsonlSources lists the files loaded on Attach. Runs load before the
// results that reference them.
var jsonlSources = []jsonlSource{
	{
		file:   runsJSONL,
		insert: insertRunSQL,
		row: func(raw json.RawMessage) ([]any, error) {
			var r runJSON
			if err := json.Unmarshal(raw, &r); err != nil {
				return nil, err
			}
			if r.RunID == "" {
				return nil, errMissingRunID
			}
			return []any{r.RunID, r.Start, r.End, r.Operators, r.MaxBits, r.Values, r.CreatedAt}, nil
		},
	},
	{
		file:   resultsJSONL,
		insert: insertResultSQL,
		row: func(raw json.RawMessage) ([]any, error) {
			var r resultJSON
			if err := json.Unmarshal(raw, &r); err != nil {
				return nil, err
			}
			if r.RunID == "" {
				return nil, errMissingRunID
			}
			return []any{r.RunID, r.Ordinal, r.Value, r.Expression}, nil
		},
	},
}

// loadAllJSONL rebuilds the database contents from the JSONL files in
// dataDir inside one transaction. Records that do not decode or that
// violate a constraint are skipped; unknown fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, src := range jsonlSources {
		records, err := readJSONL(filepath.Join(dataDir, src.file))
		if err != nil {
			return err
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, src, records); err != nil {
			return fmt.Errorf("loading %s: %w", src.file, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

func insertRecords(tx *sql.Tx, src jsonlSource, records []json.RawMessage) error {
	stmt, err := tx.Prepare(src.insert)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		args, err := src.row(rec)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}
	return nil
}
