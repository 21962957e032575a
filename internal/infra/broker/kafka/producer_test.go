package kafka

import "testing"

func TestAuditConfigIsValid(t *testing.T) {
	cfg := auditConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("audit producer config rejected: %v", err)
	}
	if !cfg.Producer.Idempotent {
		t.Error("audit producer must be idempotent")
	}
	if cfg.Net.MaxOpenRequests != 1 {
		t.Errorf("idempotent producer requires MaxOpenRequests=1, got %d", cfg.Net.MaxOpenRequests)
	}
	if cfg.Producer.Retry.Max < 1 {
		t.Errorf("idempotent producer requires at least one retry, got %d", cfg.Producer.Retry.Max)
	}
}
