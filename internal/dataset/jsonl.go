// Package dataset reads and writes newline-delimited JSON example files.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sower-ml/sower/internal/model"
)

// maxLineBytes accommodates long-context inputs on a single line.
const maxLineBytes = 4 * 1024 * 1024

// Record pairs an example with the file line it was read from. Blank lines
// are skipped but still counted, so reported line numbers match the file.
type Record struct {
	Example *model.Example
	Line    int
}

// ReadFile reads a JSONL dataset. An unparsable line is a hard error
// naming the line; blank lines are ignored.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		var ex model.Example
		if err := json.Unmarshal([]byte(text), &ex); err != nil {
			return nil, fmt.Errorf("line %d: parse example: %w", line, err)
		}
		records = append(records, Record{Example: &ex, Line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return records, nil
}

// ReadExamples reads a JSONL dataset, dropping line numbers.
func ReadExamples(path string) ([]*model.Example, error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	examples := make([]*model.Example, len(records))
	for i, rec := range records {
		examples[i] = rec.Example
	}
	return examples, nil
}

// WriteFile writes one compact JSON object per line. No blank lines are
// emitted.
func WriteFile(path string, examples []*model.Example) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close dataset: %w", closeErr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, ex := range examples {
		data, err := json.Marshal(ex)
		if err != nil {
			return fmt.Errorf("marshal example: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write dataset: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write dataset: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush dataset: %w", err)
	}

	return nil
}
