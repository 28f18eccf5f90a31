package config

import "testing"

func TestLoadIncludesThresholdDefaults(t *testing.T) {
	t.Setenv("PLACEMENT_SUGGEST_THRESHOLD", "")
	t.Setenv("PLACEMENT_AUTO_APPEND_THRESHOLD", "")
	t.Setenv("PLANNER_MIN_CONFIDENCE", "")
	t.Setenv("PLANNER_AUTO_MERGE_FLOOR", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg := Load()
	if cfg.PlacementSuggestThreshold != 0.3 {
		t.Fatalf("expected default suggest threshold 0.3, got %v", cfg.PlacementSuggestThreshold)
	}
	if cfg.PlacementAutoAppendThreshold != 0.8 {
		t.Fatalf("expected default auto append threshold 0.8, got %v", cfg.PlacementAutoAppendThreshold)
	}
	if cfg.PlannerMinConfidence != 0.4 {
		t.Fatalf("expected default planner confidence 0.4, got %v", cfg.PlannerMinConfidence)
	}
	if cfg.PlannerAutoMergeFloor != 0.8 {
		t.Fatalf("expected default auto merge floor 0.8, got %v", cfg.PlannerAutoMergeFloor)
	}
	if cfg.NATSSubject != "capture.created" {
		t.Fatalf("expected default capture subject, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesThresholdOverrides(t *testing.T) {
	t.Setenv("PLACEMENT_SUGGEST_THRESHOLD", "0.25")
	t.Setenv("PLACEMENT_AUTO_APPEND_THRESHOLD", "0.9")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_BURST", "5")

	cfg := Load()
	if cfg.PlacementSuggestThreshold != 0.25 {
		t.Fatalf("expected suggest threshold override, got %v", cfg.PlacementSuggestThreshold)
	}
	if cfg.PlacementAutoAppendThreshold != 0.9 {
		t.Fatalf("expected auto append override, got %v", cfg.PlacementAutoAppendThreshold)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 5 {
		t.Fatalf("expected burst override, got %d", cfg.APIRateLimitBurst)
	}
}

func TestLoadFallsBackOnMalformedNumbers(t *testing.T) {
	t.Setenv("PLACEMENT_SUGGEST_THRESHOLD", "not-a-number")
	t.Setenv("OCR_MAX_RETRIES", "many")
	t.Setenv("OCR_BREAKER_ENABLED", "sometimes")

	cfg := Load()
	if cfg.PlacementSuggestThreshold != 0.3 {
		t.Fatalf("expected fallback threshold 0.3, got %v", cfg.PlacementSuggestThreshold)
	}
	if cfg.OCRMaxRetries != 3 {
		t.Fatalf("expected fallback retries 3, got %d", cfg.OCRMaxRetries)
	}
	if !cfg.OCRBreakerEnabled {
		t.Fatalf("expected breaker enabled fallback, got %v", cfg.OCRBreakerEnabled)
	}
}

func TestLoadParsesBreakerToggle(t *testing.T) {
	t.Setenv("OCR_BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.OCRBreakerEnabled {
		t.Fatalf("expected breaker disabled, got %v", cfg.OCRBreakerEnabled)
	}
}
