package lbmutil

import (
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestWriteDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lbm.toml")
	if err := WriteDefaultConfigFile(path); err != nil {
		t.Fatal(err)
	}
	var got defaultConfigFile
	if _, err := toml.DecodeFile(path, &got); err != nil {
		t.Fatal(err)
	}
	if got.Nx != 32 || got.Px != 1 || !got.PeriodicX {
		t.Errorf("unexpected round-tripped config: %+v", got)
	}
}
