package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"leaderboard-sync/internal/components/assert"
	"leaderboard-sync/internal/components/telemetry"
	"os"
	"path/filepath"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	report_store_load = "store.load"
	report_store_save = "store.save"
)

// BaselineSource provides the published version of a leaderboard file, it is
// used when there is no local copy yet.
type BaselineSource interface {
	FetchBaseline(ctx context.Context, filename string) (Dataset, error)
}

// Store reads and writes leaderboard files inside a directory.
type Store struct {
	dir    string
	atomic bool
	tel    telemetry.API
}

type StoreOptions struct {
	Dir string
	// Atomic writes to a temporary file and renames it over the target instead
	// of truncating the target in place.
	Atomic bool
}

func NewStore(opts StoreOptions, tel telemetry.API) Store {
	assert.NotEmptyStr(opts.Dir)
	assert.NotNil(tel)

	return Store{
		dir:    opts.Dir,
		atomic: opts.Atomic,
		tel:    telemetry.NewScopedAPI("leaderboard", tel),
	}
}

func (s Store) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Load reads `filename` from the store directory, falling back to `baseline`
// if the file does not exist. Nothing is written to disk.
func (s Store) Load(ctx context.Context, filename string, baseline BaselineSource) (Dataset, error) {
	path := s.Path(filename)

	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.tel.ReportDebug("no local copy, fetching baseline", filename)
		dataset, err := baseline.FetchBaseline(ctx, filename)
		if err != nil {
			s.tel.ReportBroken(report_store_load, fmt.Errorf("fetch baseline: %w", err), filename)
			return nil, fmt.Errorf("load %s: fetch baseline: %w", filename, err)
		}
		return dataset, nil
	}
	if err != nil {
		s.tel.ReportBroken(report_store_load, err, path)
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}

	dataset, err := DecodeDataset(contents)
	if err != nil {
		s.tel.ReportBroken(report_store_load, err, path)
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return dataset, nil
}

// Save writes `dataset` to `filename` in the store directory.
func (s Store) Save(filename string, dataset Dataset) error {
	contents, err := EncodeDataset(dataset)
	if err != nil {
		s.tel.ReportBroken(report_store_save, err, filename)
		return fmt.Errorf("save %s: %w", filename, err)
	}

	path := s.Path(filename)
	if s.atomic {
		err = writeFileAtomic(path, contents)
	} else {
		err = os.WriteFile(path, contents, 0644)
	}
	if err != nil {
		s.tel.ReportBroken(report_store_save, err, path)
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

func writeFileAtomic(path string, contents []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Chmod(0644)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// DecodeDataset parses the contents of a leaderboard file.
func DecodeDataset(contents []byte) (Dataset, error) {
	var dataset Dataset
	err := json.Unmarshal(contents, &dataset)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if dataset == nil {
		// a literal `null`
		dataset = Dataset{}
	}
	return dataset, nil
}

// EncodeDataset renders a dataset with 4 space indentation, sorted keys and
// non-ASCII characters escaped, the layout of the published files apart from
// key order. The same dataset always renders to the same bytes.
func EncodeDataset(dataset Dataset) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	err := encoder.Encode(dataset)
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII replaces every non-ASCII character of an encoded json
// document with its \uXXXX escape. Such characters only occur inside strings.
func escapeNonASCII(encoded []byte) []byte {
	out := make([]byte, 0, len(encoded))
	for len(encoded) > 0 {
		if encoded[0] < utf8.RuneSelf {
			out = append(out, encoded[0])
			encoded = encoded[1:]
			continue
		}
		r, size := utf8.DecodeRune(encoded)
		encoded = encoded[size:]
		if r >= 0x10000 {
			high, low := utf16.EncodeRune(r)
			out = fmt.Appendf(out, "\\u%04x\\u%04x", high, low)
			continue
		}
		out = fmt.Appendf(out, "\\u%04x", r)
	}
	return out
}
