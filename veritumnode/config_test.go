package veritumnode

import "testing"

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("DefaultConfig should validate cleanly: %v", err)
	}
}

func TestValidateConfig_RejectsEmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "  "
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error on blank data_dir")
	}
}

func TestValidateConfig_RejectsOutOfRangeDifficulty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Difficulty = -1
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error on negative difficulty")
	}
	cfg.Difficulty = 257
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error on difficulty above 256")
	}
}

func TestValidateConfig_RejectsUnknownLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected error on unrecognized log level")
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "WARN"
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("expected case-insensitive log level match, got %v", err)
	}
}
