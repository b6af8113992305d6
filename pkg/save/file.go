package save

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Magic identifies a gridcity save file.
const Magic = "GCTY"

// headerSize is magic + version + checksum.
const headerSize = 12

// autosaveSlots is the number of rotating autosave files.
const autosaveSlots = 3

// Encode serializes a Save into the full file image: magic, version, a
// CRC-32 of the compressed body, then the zstd-framed body.
func Encode(s *Save) ([]byte, error) {
	body := s.encodeBody()

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	compressed := enc.EncodeAll(body, nil)
	enc.Close()

	out := make([]byte, headerSize, headerSize+len(compressed))
	copy(out, Magic)
	binary.LittleEndian.PutUint32(out[4:], s.Version)
	binary.LittleEndian.PutUint32(out[8:], crc32.ChecksumIEEE(compressed))
	return append(out, compressed...), nil
}

// Decode parses a file image, validates the header and checksum, migrates
// old versions forward, and returns the Save. The caller's world is
// untouched on any failure.
func Decode(data []byte) (*Save, error) {
	version, compressed, err := splitHeader(data)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	body, err := dec.DecodeAll(compressed, nil)
	dec.Close()
	if err != nil {
		return nil, fmt.Errorf("decompressing save body: %w", err)
	}

	body, err = migrate(body, version)
	if err != nil {
		return nil, err
	}
	return decodeBody(body)
}

func splitHeader(data []byte) (uint32, []byte, error) {
	if len(data) < headerSize {
		return 0, nil, fmt.Errorf("parsing save header: %d bytes is too short", len(data))
	}
	if string(data[:4]) != Magic {
		return 0, nil, fmt.Errorf("parsing save header: bad magic %q", data[:4])
	}
	version := binary.LittleEndian.Uint32(data[4:])
	sum := binary.LittleEndian.Uint32(data[8:])
	compressed := data[headerSize:]
	if crc32.ChecksumIEEE(compressed) != sum {
		return 0, nil, fmt.Errorf("parsing save header: checksum mismatch")
	}
	return version, compressed, nil
}

// WriteFile writes a save atomically: the image lands in a temp file in
// the same directory and is renamed over the target, so a crash mid-write
// never corrupts an existing save.
func WriteFile(path string, s *Save) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encoding save: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp save: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp save: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// ReadFile loads and decodes a save file.
func ReadFile(path string) (*Save, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading save file: %w", err)
	}
	return Decode(data)
}

// AutosavePath returns the slot file for an autosave index.
func AutosavePath(dir string, slot int) string {
	return filepath.Join(dir, fmt.Sprintf("autosave-%d.gcty", slot%autosaveSlots))
}

// Autosave writes into the rotating slot for the given counter and sweeps
// stale temp files left by earlier crashes.
func Autosave(dir string, counter int, s *Save) (string, error) {
	sweepStaleTemp(dir)
	path := AutosavePath(dir, counter)
	if err := WriteFile(path, s); err != nil {
		return "", err
	}
	return path, nil
}

// LoadLatest scans a directory for save files, newest first, and returns
// the first one that decodes cleanly. Corrupted primaries fall back to
// older slots.
func LoadLatest(dir string) (*Save, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", fmt.Errorf("scanning save directory: %w", err)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var found []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".gcty") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{
			path: filepath.Join(dir, e.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].mod > found[j].mod })

	var lastErr error
	for _, c := range found {
		s, err := ReadFile(c.path)
		if err != nil {
			lastErr = err
			continue
		}
		return s, c.path, nil
	}
	if lastErr != nil {
		return nil, "", fmt.Errorf("no loadable save in %s: %w", dir, lastErr)
	}
	return nil, "", fmt.Errorf("no save files in %s", dir)
}

func sweepStaleTemp(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() && strings.Contains(e.Name(), ".tmp-") {
			os.Remove(filepath.Join(dir, e.Name()))
		}
	}
}

// Summary is what Inspect reports without building a world.
type Summary struct {
	Version       uint32
	Width, Height int
	Day           int
	Treasury      float64
	Buildings     int
	Services      int
	Utilities     int
	Citizens      int
	Segments      int
	ExtensionKeys []string
}

// Inspect decodes a save file into a header-level summary.
func Inspect(path string) (*Summary, error) {
	s, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.Extensions))
	for k := range s.Extensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Summary{
		Version:       s.Version,
		Width:         s.Grid.Width,
		Height:        s.Grid.Height,
		Day:           int(s.Environment.ClockDay),
		Treasury:      s.Economy.Treasury,
		Buildings:     len(s.Entities.Buildings),
		Services:      len(s.Entities.Services),
		Utilities:     len(s.Entities.Utilities),
		Citizens:      len(s.Entities.Citizens),
		Segments:      len(s.Grid.Segments),
		ExtensionKeys: keys,
	}, nil
}
