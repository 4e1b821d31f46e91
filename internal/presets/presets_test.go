package presets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileSeedsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "setting.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(opts.Presets) != 1 || opts.Presets[0].Name != "Preset #1" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if opts.Favorite().AudioLanguage != "English" {
		t.Fatalf("favorite preset wrong: %+v", opts.Favorite())
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "setting.json")
	opts := Options{
		Presets: []Preset{
			DefaultPreset(),
			{Name: "Anime", SubtitleLanguage: "Japanese", SubtitleExtensions: []string{"srt"}},
		},
		FavoritePresetID: 1,
	}
	if err := Save(path, opts); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Presets) != 2 || loaded.Favorite().Name != "Anime" {
		t.Fatalf("round trip lost data: %+v", loaded)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Historical key casing must survive so old settings files stay valid.
	for _, key := range []string{`"Preset_Name"`, `"Default_Audio_Language"`, `"FavoritePresetId"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("missing key %s in %s", key, data)
		}
	}
}

func TestLoadClampsFavoriteID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setting.json")
	if err := os.WriteFile(path, []byte(`{"Presets": [{"Preset_Name": "Only"}], "FavoritePresetId": 9}`), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.FavoritePresetID != 0 || opts.Favorite().Name != "Only" {
		t.Fatalf("favorite id not clamped: %+v", opts)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setting.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
