package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseMode(t *testing.T) {
	if ParseMode("prod") != Prod || ParseMode("dev") != Dev || ParseMode("") != Dev {
		t.Fatal("unexpected mode mapping")
	}
}

func TestNewWritesFiles(t *testing.T) {
	dir := t.TempDir()
	log := New(&Config{Mode: Dev, Level: "info", App: "slot", Dir: dir, File: true})
	log.Info("spin")
	log.Error("boom")
	_ = log.Sync()

	for _, name := range []string{"slot.log", "slot_error.log"} {
		st, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if st.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestNewNilConfig(t *testing.T) {
	if New(nil) == nil {
		t.Fatal("nil logger")
	}
}
