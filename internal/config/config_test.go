package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	opts := Default()
	if opts.InputFormat != "dkvp" || opts.OutputFormat != "dkvp" {
		t.Errorf("default formats = %s/%s", opts.InputFormat, opts.OutputFormat)
	}
	if opts.Ofmt != "%f" {
		t.Errorf("default ofmt = %s", opts.Ofmt)
	}
}

func TestLoadRC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rc.yaml")
	rc := "ofmt: \"%.2f\"\nifmt: csv\nofs: \"|\"\n"
	if err := os.WriteFile(path, []byte(rc), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadRC(path)
	if err != nil {
		t.Fatalf("LoadRC: %v", err)
	}
	if opts.Ofmt != "%.2f" {
		t.Errorf("ofmt = %s", opts.Ofmt)
	}
	if opts.InputFormat != "csv" {
		t.Errorf("ifmt = %s", opts.InputFormat)
	}
	if opts.OFS != "|" {
		t.Errorf("ofs = %s", opts.OFS)
	}
	// Unset keys keep their defaults.
	if opts.OutputFormat != "dkvp" {
		t.Errorf("ofmt_records = %s", opts.OutputFormat)
	}
}

func TestLoadRCMissingFileIsDefaults(t *testing.T) {
	opts, err := LoadRC(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadRC: %v", err)
	}
	if opts.IFS != "," {
		t.Errorf("ifs = %s", opts.IFS)
	}
}

func TestLoadRCMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rc.yaml")
	os.WriteFile(path, []byte(":\t not yaml ["), 0o644)
	if _, err := LoadRC(path); err == nil {
		t.Error("malformed rc file did not error")
	}
}
