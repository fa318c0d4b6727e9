package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/spoolfi/spool-go/txn"
)

// Journal appends finished-transaction records to a JSONL file. It satisfies
// txn.Sink.
type Journal struct {
	path string
	mu   sync.Mutex
}

func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Append writes one record as a JSON line.
func (j *Journal) Append(rec txn.Record) error {
	dir := filepath.Dir(j.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create journal dir: %w", err)
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	line = append(line, '\n')
	if _, err := file.Write(line); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// LastCommittedTotal scans a journal and returns the total sol value after
// the most recent committed transaction. The scan tolerates records written
// by newer versions; only the fields it needs are extracted.
func LastCommittedTotal(path string) (uint64, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var (
		total uint64
		found bool
	)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !gjson.ValidBytes(line) {
			continue
		}
		if !gjson.GetBytes(line, "committed").Bool() {
			continue
		}
		total = gjson.GetBytes(line, "total_after").Uint()
		found = true
	}
	if err := scanner.Err(); err != nil {
		return 0, false, fmt.Errorf("scan journal: %w", err)
	}
	return total, found, nil
}

// CommittedCount scans a journal and counts committed transactions per
// leading instruction kind.
func CommittedCount(path string) (map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	counts := make(map[string]int)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !gjson.GetBytes(line, "committed").Bool() {
			continue
		}
		kinds := gjson.GetBytes(line, "kinds").Array()
		if len(kinds) == 0 {
			continue
		}
		counts[kinds[0].String()]++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return counts, nil
}
