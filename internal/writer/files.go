package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/ah-ledger/internal/stats"
)

// IndexFile is the name of the run-wide realm index.
const IndexFile = "realms.json"

const indent = "    "

// StatsFile returns the auction-house totals filename for slug.
func StatsFile(slug string) string { return slug + ".json" }

// AuctionsFile returns the raw auctions filename for slug.
func AuctionsFile(slug string) string { return slug + "-auctions.json" }

// PlayersFile returns the per-seller filename for slug.
func PlayersFile(slug string) string { return slug + "-players.json" }

// FileWriter writes documents into one output directory.
type FileWriter struct {
	dir    string
	logger *slog.Logger
}

// NewFileWriter creates a writer for dir. The directory must exist.
func NewFileWriter(dir string, logger *slog.Logger) *FileWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWriter{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (w *FileWriter) Dir() string {
	return w.dir
}

type encodedFile struct {
	name string
	data []byte
}

// WriteGroup writes the three documents of one auction house.
// All three are encoded before any file is touched; the files are then
// persisted concurrently, each through its own temp file and rename.
func (w *FileWriter) WriteGroup(ctx context.Context, docs *stats.Documents) error {
	start := time.Now()

	files := []encodedFile{
		{name: StatsFile(docs.Slug)},
		{name: PlayersFile(docs.Slug)},
		{name: AuctionsFile(docs.Slug)},
	}
	values := []any{docs.Realm, docs.Players, docs.Auctions}
	pretty := []bool{true, true, false}

	var enc errgroup.Group
	for i := range files {
		enc.Go(func() error {
			data, err := encode(values[i], pretty[i])
			if err != nil {
				return &SerializationError{Path: w.path(files[i].name), Op: "encode", Err: err}
			}
			files[i].data = data
			return nil
		})
	}
	if err := enc.Wait(); err != nil {
		return err
	}

	// Do not start replacing files for a cancelled run.
	if err := ctx.Err(); err != nil {
		return err
	}

	var persist errgroup.Group
	for _, f := range files {
		persist.Go(func() error {
			return w.persist(f.name, f.data)
		})
	}
	if err := persist.Wait(); err != nil {
		return err
	}

	var written int
	for _, f := range files {
		written += len(f.data)
	}

	w.logger.Debug("wrote auction house documents",
		"slug", docs.Slug,
		"bytes", written,
		"duration", time.Since(start),
	)
	return nil
}

// WriteIndex writes realms.json.
func (w *FileWriter) WriteIndex(index *RealmIndex) error {
	data, err := encode(index, true)
	if err != nil {
		return &SerializationError{Path: w.path(IndexFile), Op: "encode", Err: err}
	}
	return w.persist(IndexFile, data)
}

func (w *FileWriter) path(name string) string {
	return filepath.Join(w.dir, name)
}

// persist writes data to a temp file next to name and renames it into place.
func (w *FileWriter) persist(name string, data []byte) error {
	target := w.path(name)
	if err := writeAtomic(target, data); err != nil {
		return &SerializationError{Path: target, Op: "write", Err: err}
	}
	return nil
}

func writeAtomic(target string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func encode(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
