package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primecount.backup")

	s := State{
		Algorithm:      "gourdon",
		X:              1_000_000_000_000,
		Y:              123456,
		Z:              654321,
		K:              3,
		Low:            999999,
		ThreadDist:     1 << 23,
		PartialSum:     -4821,
		Percent:        42.5,
		ElapsedSeconds: 12.75,
	}
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path, "gourdon", s.X, s.Y, s.Z, s.K)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != s {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, s)
	}
}

func TestLoadRejectsHeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primecount.backup")

	s := State{Algorithm: "lmo", X: 100, Y: 10}
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := Load(path, "lmo", 200, 10, 0, 0); err != ErrHeaderMismatch {
		t.Errorf("Load with mismatched x: got err %v, want ErrHeaderMismatch", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primecount.backup")
	if err := os.WriteFile(path, []byte("not a key value line at all\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path, "lmo", 1, 1, 0, 0); err == nil {
		t.Error("Load on malformed file: want error, got nil")
	}
}

func TestLoadMissingFileReturnsBackupIOError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"), "lmo", 1, 1, 0, 0)
	if err == nil {
		t.Fatal("Load on missing file: want error, got nil")
	}
}

func TestSaveOverwritesExistingFileAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primecount.backup")

	first := State{Algorithm: "lmo", X: 1, Y: 1, Low: 0}
	second := State{Algorithm: "lmo", X: 1, Y: 1, Low: 500}
	if err := Save(path, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := Save(path, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, err := Load(path, "lmo", 1, 1, 0, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Low != 500 {
		t.Errorf("Low = %d, want 500 (second save should win)", got.Low)
	}
}
