package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

type testOptions struct {
	Config string

	StringField string   `toml:"test.string_field" env:"STRING_FIELD"`
	BoolField   bool     `toml:"test.bool_field" env:"BOOL_FIELD"`
	IntField    int      `toml:"test.int_field" env:"INT_FIELD"`
	FloatField  float64  `toml:"test.float_field" env:"FLOAT_FIELD"`
	SliceField  []string `toml:"test.slice_field" env:"SLICE_FIELD"`

	NestedString string `toml:"nested.deeper.value" env:"NESTED_VALUE"`
}

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camscan.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleTOML = `
[test]
string_field = "hello world"
bool_field = true
int_field = 42
float_field = 2
slice_field = ["item1", "item2"]

[nested.deeper]
value = "nested value"
`

func TestLoadConfigFromTOML(t *testing.T) {
	opts := &testOptions{Config: writeTOML(t, sampleTOML)}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := testOptions{
		Config:       opts.Config,
		StringField:  "hello world",
		BoolField:    true,
		IntField:     42,
		FloatField:   2,
		SliceField:   []string{"item1", "item2"},
		NestedString: "nested value",
	}
	if !reflect.DeepEqual(*opts, want) {
		t.Errorf("LoadConfig() = %+v, want %+v", *opts, want)
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	t.Setenv("CAMSCAN_STRING_FIELD", "env override")
	t.Setenv("CAMSCAN_BOOL_FIELD", "false")
	t.Setenv("CAMSCAN_FLOAT_FIELD", "0.5")
	t.Setenv("CAMSCAN_SLICE_FIELD", " a , b ,c")

	opts := &testOptions{Config: writeTOML(t, sampleTOML)}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.StringField != "env override" || opts.BoolField || opts.FloatField != 0.5 {
		t.Errorf("env values not applied: %+v", *opts)
	}
	if !reflect.DeepEqual(opts.SliceField, []string{"a", "b", "c"}) {
		t.Errorf("SliceField = %v, want [a b c]", opts.SliceField)
	}
	if opts.IntField != 42 {
		t.Errorf("IntField = %d, want TOML value 42", opts.IntField)
	}
}

func TestLoadConfigChangedFlagsWin(t *testing.T) {
	t.Setenv("CAMSCAN_INT_FIELD", "7")

	opts := &testOptions{Config: writeTOML(t, sampleTOML)}
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&opts.IntField, "int-field", 0, "")
	cmd.Flags().StringVar(&opts.StringField, "string-field", "", "")
	if err := cmd.Flags().Parse([]string{"--int-field=3"}); err != nil {
		t.Fatal(err)
	}

	if err := LoadConfig(opts, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if opts.IntField != 3 {
		t.Errorf("IntField = %d, want flag value 3", opts.IntField)
	}
	if opts.StringField != "hello world" {
		t.Errorf("StringField = %q, unchanged flag should take the TOML value", opts.StringField)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{Config: filepath.Join(t.TempDir(), "absent.toml"), IntField: 5}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed for missing file: %v", err)
	}
	if opts.IntField != 5 {
		t.Errorf("IntField = %d, default was overwritten", opts.IntField)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	opts := &testOptions{Config: writeTOML(t, "[test\ninvalid toml syntax\n")}
	if err := LoadConfig(opts, nil); err == nil {
		t.Fatal("LoadConfig succeeded on invalid TOML")
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	if err := LoadConfig(testOptions{}, nil); err == nil {
		t.Error("LoadConfig accepted a struct value")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := map[string]string{
		"Port":          "port",
		"LoggingLevel":  "logging-level",
		"LoggingV4l2":   "logging-v4l2",
		"LoggingDaemon": "logging-daemon",
		"LoggingAPI":    "logging-api",
		"APIPort":       "api-port",
	}
	for in, want := range tests {
		if got := fieldNameToFlag(in); got != want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{"value": "nested"},
			"simple": "simple",
		},
		"root": "root",
	}

	tests := []struct {
		path string
		want any
	}{
		{"root", "root"},
		{"level1.simple", "simple"},
		{"level1.level2.value", "nested"},
		{"nonexistent", nil},
		{"level1.nonexistent", nil},
		{"root.child", nil},
	}
	for _, tt := range tests {
		if got := getNestedValue(data, tt.path); got != tt.want {
			t.Errorf("getNestedValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSetFieldValueIgnoresMismatchedTypes(t *testing.T) {
	s := &testOptions{StringField: "keep", IntField: 1}
	v := reflect.ValueOf(s).Elem()

	setFieldValue(v.FieldByName("StringField"), int64(3))
	setFieldValue(v.FieldByName("IntField"), "three")
	setFieldValueFromString(v.FieldByName("BoolField"), "maybe")

	if s.StringField != "keep" || s.IntField != 1 || s.BoolField {
		t.Errorf("mismatched values were assigned: %+v", *s)
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeTOML(t, `
[logging]
level = "warn"
format = "json"
v4l2 = "debug"
hotplug = "error"
`)

	cfg, err := LoadLoggingConfig(path)
	if err != nil {
		t.Fatalf("LoadLoggingConfig failed: %v", err)
	}
	if cfg.Level != "warn" || cfg.Format != "json" {
		t.Errorf("global = %q/%q, want warn/json", cfg.Level, cfg.Format)
	}
	want := map[string]string{"v4l2": "debug", "hotplug": "error"}
	if !reflect.DeepEqual(cfg.Modules, want) {
		t.Errorf("Modules = %v, want %v", cfg.Modules, want)
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	cfg, err := LoadLoggingConfig("")
	if err != nil {
		t.Fatalf("LoadLoggingConfig(\"\") failed: %v", err)
	}
	if cfg.Level != "info" || cfg.Format != "text" || len(cfg.Modules) != 0 {
		t.Errorf("defaults = %+v", cfg)
	}

	if _, err := LoadLoggingConfig(writeTOML(t, "[logging\n")); err == nil {
		t.Error("LoadLoggingConfig succeeded on invalid TOML")
	}
}
