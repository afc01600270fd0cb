package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
)

func TestCategoryCreateDuplicateNameIs409(t *testing.T) {
	env := newTestEnv()
	env.seedCategory(t, "Electronics")

	w := env.do(t, http.MethodPost, "/api/categories/", map[string]string{
		"name":        "Electronics",
		"description": "second attempt",
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if response.Status != http.StatusConflict {
		t.Errorf("status field mismatch: %d", response.Status)
	}
	if !strings.Contains(response.Message, "Electronics") {
		t.Errorf("conflict message should name the category, got %q", response.Message)
	}
}

func TestCategoryCreateMissingNameIs400(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodPost, "/api/categories/", map[string]string{
		"description": "no name",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Messages map[string]string `json:"messages"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if _, ok := response.Messages["name"]; !ok {
		t.Errorf("expected a violation for name, got %v", response.Messages)
	}
}

func TestCategoryGetUnknownIDIs404(t *testing.T) {
	env := newTestEnv()

	id := uuid.New()
	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%s", id), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(response.Message, id.String()) {
		t.Errorf("not-found message should carry the ID, got %q", response.Message)
	}
}

func TestCategoryDeleteReturns204(t *testing.T) {
	env := newTestEnv()
	categoryID := env.seedCategory(t, "Electronics")

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%s", categoryID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.Len() != 0 {
		t.Errorf("204 response should carry no body, got %q", w.Body.String())
	}

	// Second delete reports not-found
	if w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%s", categoryID), nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete expected 404, got %d", w.Code)
	}
}

func TestCategoryUpdateOverwrites(t *testing.T) {
	env := newTestEnv()
	categoryID := env.seedCategory(t, "Electronics")

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/categories/%s", categoryID), map[string]string{
		"name":        "Appliances",
		"description": "Home appliances",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var category domain.Category
	if err := json.NewDecoder(w.Body).Decode(&category); err != nil {
		t.Fatalf("failed to decode category: %v", err)
	}
	if category.Name != "Appliances" || category.Description != "Home appliances" {
		t.Errorf("update not reflected: %+v", category)
	}
}

func TestCategoryListReturnsAll(t *testing.T) {
	env := newTestEnv()
	env.seedCategory(t, "Electronics")
	env.seedCategory(t, "Books")

	w := env.do(t, http.MethodGet, "/api/categories/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var categories []domain.Category
	if err := json.NewDecoder(w.Body).Decode(&categories); err != nil {
		t.Fatalf("failed to decode categories: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(categories))
	}
}

func TestCategoryInvalidIDIs400(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodGet, "/api/categories/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
