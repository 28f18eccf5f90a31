package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snipvault/snipvault/internal/config"
	"github.com/snipvault/snipvault/internal/core/domain"
)

type organizerSpy struct {
	strategy domain.SelectionStrategy
	plan     domain.OrganizationPlan
	result   *domain.OrganizationResult
}

func (f *organizerSpy) AnalyzeOrganization(context.Context, string) ([]domain.OrganizationPlan, error) {
	return nil, nil
}

func (f *organizerSpy) AutoOrganize(_ context.Context, _ string, strategy domain.SelectionStrategy) (*domain.OrganizationResult, error) {
	f.strategy = strategy
	return f.result, nil
}

func (f *organizerSpy) ExecutePlan(_ context.Context, _ string, plan domain.OrganizationPlan) (*domain.OrganizationResult, error) {
	f.plan = plan
	return f.result, nil
}

func newRouterWithOrganizer(spy *organizerSpy) http.Handler {
	return NewRouter(
		config.Config{},
		ingestFake{},
		capturesFake{},
		analyzerFake{},
		spy,
		libraryFake{},
		nil,
	).Handler()
}

func TestAnalyzeOrganizationEndpoint(t *testing.T) {
	handler := NewRouter(
		config.Config{},
		ingestFake{},
		capturesFake{},
		analyzerFake{},
		organizerFake{plans: []domain.OrganizationPlan{
			{ID: "p1", Name: "Merge near-duplicates", Strategy: domain.StrategySimilarityBased, Confidence: 0.84},
		}},
		libraryFake{},
		nil,
	).Handler()

	payload, _ := json.Marshal(map[string]string{"owner_id": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/v1/organization/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var resp struct {
		Plans []domain.OrganizationPlan `json:"plans"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Plans) != 1 || resp.Plans[0].Strategy != domain.StrategySimilarityBased {
		t.Fatalf("unexpected plans: %+v", resp.Plans)
	}
}

func TestAutoOrganizeEmptyBodyDefaultsToBalanced(t *testing.T) {
	spy := &organizerSpy{result: &domain.OrganizationResult{PlanID: "p1", Success: true}}
	handler := newRouterWithOrganizer(spy)

	req := httptest.NewRequest(http.MethodPost, "/v1/organization/auto?owner_id=user-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if spy.strategy != domain.SelectBalanced {
		t.Fatalf("expected balanced strategy, got %q", spy.strategy)
	}

	var resp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["plan_id"] != "p1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAutoOrganizePassesExplicitStrategy(t *testing.T) {
	spy := &organizerSpy{result: &domain.OrganizationResult{PlanID: "p1", Success: true}}
	handler := newRouterWithOrganizer(spy)

	payload, _ := json.Marshal(map[string]string{"strategy": "conservative"})
	req := httptest.NewRequest(http.MethodPost, "/v1/organization/auto?owner_id=user-1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if spy.strategy != domain.SelectConservative {
		t.Fatalf("expected conservative strategy, got %q", spy.strategy)
	}
}

func TestExecutePlanDecodesPlanPayload(t *testing.T) {
	spy := &organizerSpy{result: &domain.OrganizationResult{PlanID: "p1", Success: true}}
	handler := newRouterWithOrganizer(spy)

	payload, _ := json.Marshal(map[string]any{
		"plan": map[string]any{
			"id":       "p1",
			"strategy": "similarity_based",
			"actions": []map[string]any{
				{"id": "a1", "type": "merge", "affected_item_ids": []string{"f1", "f2"}},
			},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/organization/execute?owner_id=user-1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if spy.plan.ID != "p1" {
		t.Fatalf("expected plan p1, got %q", spy.plan.ID)
	}
	if len(spy.plan.Actions) != 1 || spy.plan.Actions[0].Type != domain.ActionMerge {
		t.Fatalf("unexpected actions: %+v", spy.plan.Actions)
	}
}

func TestExecutePlanRejectsInvalidJSON(t *testing.T) {
	spy := &organizerSpy{result: &domain.OrganizationResult{}}
	handler := newRouterWithOrganizer(spy)

	req := httptest.NewRequest(http.MethodPost, "/v1/organization/execute?owner_id=user-1", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}
