package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/formsmith/formsmith-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(testLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderCohere {
		t.Fatalf("want default provider cohere, got %q", cfg.Provider)
	}
	if cfg.Generation.Temperature != 0.7 || cfg.Generation.MaxTokens != 1024 {
		t.Fatalf("unexpected generation defaults: %+v", cfg.Generation)
	}
	if cfg.CohereBaseURL == "" || cfg.GeminiBaseURL == "" || cfg.HuggingFaceBaseURL == "" {
		t.Fatal("provider base URLs must have defaults")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FORM_AI_PROVIDER", "Gemini")
	t.Setenv("FORM_AI_MODEL", "gemini-1.5-flash")
	t.Setenv("FORM_AI_TEMPERATURE", "0.2")

	cfg, err := Load(testLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderGemini {
		t.Fatalf("provider name must be lowercased, got %q", cfg.Provider)
	}
	if cfg.Generation.Model != "gemini-1.5-flash" || cfg.Generation.Temperature != 0.2 {
		t.Fatalf("unexpected generation config: %+v", cfg.Generation)
	}
}

func TestLoadUnknownProvider(t *testing.T) {
	t.Setenv("FORM_AI_PROVIDER", "openai")
	if _, err := Load(testLogger(t)); err == nil {
		t.Fatal("want error for unknown provider")
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formsmith.yaml")
	contents := "provider: huggingface\ngeneration:\n  model: mistralai/Mistral-7B-Instruct-v0.2\n  max_tokens: 2048\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("FORM_AI_CONFIG", path)
	t.Setenv("FORM_AI_TEMPERATURE", "0.3")

	cfg, err := Load(testLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderHuggingFace {
		t.Fatalf("yaml provider override lost, got %q", cfg.Provider)
	}
	if cfg.Generation.Model != "mistralai/Mistral-7B-Instruct-v0.2" || cfg.Generation.MaxTokens != 2048 {
		t.Fatalf("yaml generation override lost: %+v", cfg.Generation)
	}
	// Env values the file does not set stay in effect.
	if cfg.Generation.Temperature != 0.3 {
		t.Fatalf("env temperature lost: %v", cfg.Generation.Temperature)
	}
}

func TestLoadNeverLogsSecrets(t *testing.T) {
	const secret = "super-secret-hmac-key-123"
	t.Setenv("JWT_SECRET_KEY", secret)
	t.Setenv("COHERE_API_KEY", "co-key-456")
	t.Setenv("GEMINI_API_KEY", "gm-key-789")
	t.Setenv("HUGGINGFACE_API_KEY", "hf-key-012")

	core, entries := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	if _, err := Load(log); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, entry := range entries.All() {
		line := entry.Message
		for key, val := range entry.ContextMap() {
			line += fmt.Sprintf(" %s=%v", key, val)
		}
		for _, leaked := range []string{secret, "co-key-456", "gm-key-789", "hf-key-012"} {
			if strings.Contains(line, leaked) {
				t.Fatalf("credential value reached the log sink: %s", line)
			}
		}
	}
}

func TestLoadMissingYAMLFile(t *testing.T) {
	t.Setenv("FORM_AI_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(testLogger(t)); err == nil {
		t.Fatal("want error for missing config file")
	}
}
