package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://medium.com/feed/tag/travel"
kind: rss

settings:
  enabled: true
  refresh_interval: 1800
  max_items: 25
  timeout: 15

extra_stopwords:
  - "truck"
  - "vehicle"
`

	err := os.WriteFile(filepath.Join(tempDir, "medium_travel.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 config, got %d", configCache.GetConfigCount())
	}

	sourceConfig, err := configCache.GetConfig("medium_travel")
	if err != nil {
		t.Fatal(err)
	}

	if sourceConfig.Name != "medium_travel" {
		t.Errorf("Expected name 'medium_travel', got '%s'", sourceConfig.Name)
	}
	if sourceConfig.Kind != KindRSS {
		t.Errorf("Expected kind 'rss', got '%s'", sourceConfig.Kind)
	}
	if sourceConfig.Settings.RefreshInterval != 1800 {
		t.Errorf("Expected refresh interval 1800, got %d", sourceConfig.Settings.RefreshInterval)
	}
	if len(sourceConfig.ExtraStopwords) != 2 {
		t.Errorf("Expected 2 extra stopwords, got %d", len(sourceConfig.ExtraStopwords))
	}
}

func TestConfigCacheDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/feed.xml"
`

	err := os.WriteFile(filepath.Join(tempDir, "minimal.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	sourceConfig, err := configCache.GetConfig("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if sourceConfig.Kind != KindRSS {
		t.Errorf("Expected default kind 'rss', got '%s'", sourceConfig.Kind)
	}
	if sourceConfig.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", sourceConfig.Settings.RefreshInterval)
	}
	if sourceConfig.Settings.MaxItems != 100 {
		t.Errorf("Expected default max items 100, got %d", sourceConfig.Settings.MaxItems)
	}
	if sourceConfig.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", sourceConfig.Settings.Timeout)
	}
}

func TestConfigCacheHTMLSourceRequiresItemSelector(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://www.lonelyplanet.com/articles"
kind: html
`

	err := os.WriteFile(filepath.Join(tempDir, "lonelyplanet.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err == nil {
		t.Fatal("Expected validation error for html source without item_selector")
	}
	if !strings.Contains(err.Error(), "item_selector") {
		t.Errorf("Expected item_selector error, got: %v", err)
	}
}

func TestConfigCacheInvalidKind(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com"
kind: sitemap
`

	err := os.WriteFile(filepath.Join(tempDir, "bad.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err == nil {
		t.Fatal("Expected validation error for unknown source kind")
	}
}

func TestConfigCacheMissingDirectory(t *testing.T) {
	configCache := NewConfigCache("/nonexistent/path")
	if err := configCache.Run(); err != nil {
		t.Errorf("Missing sources directory should not be an error, got: %v", err)
	}
	if configCache.GetConfigCount() != 0 {
		t.Errorf("Expected 0 configs, got %d", configCache.GetConfigCount())
	}
}

func TestConfigCacheGetEnabledConfigs(t *testing.T) {
	tempDir := t.TempDir()

	enabled := `
url: "https://example.com/a.xml"
settings:
  enabled: true
`
	disabled := `
url: "https://example.com/b.xml"
settings:
  enabled: false
`

	if err := os.WriteFile(filepath.Join(tempDir, "a.yml"), []byte(enabled), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "b.yml"), []byte(disabled), 0644); err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	enabledConfigs := configCache.GetEnabledConfigs()
	if len(enabledConfigs) != 1 {
		t.Errorf("Expected 1 enabled config, got %d", len(enabledConfigs))
	}
	if _, ok := enabledConfigs["a"]; !ok {
		t.Error("Expected source 'a' to be enabled")
	}
}

func TestConfigCacheGetExtraStopwords(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/a.xml"
extra_stopwords:
  - "intra"
  - "commercial"
`

	if err := os.WriteFile(filepath.Join(tempDir, "a.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	words := configCache.GetExtraStopwords()
	if len(words) != 2 {
		t.Errorf("Expected 2 extra stopwords, got %v", words)
	}
}
