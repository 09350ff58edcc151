package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestInMemoryRecorder(t *testing.T) {
	m := NewInMemory()
	m.IncRecordCreated(EntityUser)
	m.IncRecordCreated(EntityUser)
	m.IncRecordUpdated(EntityAd)
	m.IncRecordDeleted(EntityAd)
	m.IncCacheHit(EntityAd)
	m.IncCacheMiss(EntityUser)
	m.IncLoginAttempt(true)
	m.IncLoginAttempt(false)
	m.ObserveRequest(http.MethodGet, "/user/{id}", 200, 10*time.Millisecond)

	s := m.Snapshot()
	if s.Created[EntityUser] != 2 {
		t.Errorf("Created[user] = %d, want 2", s.Created[EntityUser])
	}
	if s.Updated[EntityAd] != 1 || s.Deleted[EntityAd] != 1 {
		t.Errorf("unexpected ad counters: %+v", s)
	}
	if s.CacheHits[EntityAd] != 1 || s.CacheMisses[EntityUser] != 1 {
		t.Errorf("unexpected cache counters: %+v", s)
	}
	if s.LoginSuccess != 1 || s.LoginFailure != 1 {
		t.Errorf("unexpected login counters: %+v", s)
	}
	if s.Requests != 1 || s.RequestsTotal != 10*time.Millisecond {
		t.Errorf("unexpected request counters: %+v", s)
	}

	// Snapshot is a copy.
	s.Created[EntityUser] = 100
	if m.Snapshot().Created[EntityUser] != 2 {
		t.Error("snapshot must not alias recorder state")
	}
}

func TestPrometheusRecorder(t *testing.T) {
	p := NewPrometheus()
	p.IncRecordCreated(EntityUser)
	p.IncRecordDeleted(EntityAd)
	p.IncCacheHit(EntityUser)
	p.IncLoginAttempt(false)
	p.ObserveRequest(http.MethodPost, "/ads", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`adboard_records_total{entity="user",op="create"} 1`,
		`adboard_records_total{entity="ad",op="delete"} 1`,
		`adboard_cache_lookups_total{entity="user",result="hit"} 1`,
		`adboard_login_attempts_total{result="failure"} 1`,
		"adboard_http_request_duration_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoop()
	r.IncRecordCreated(EntityUser)
	r.ObserveRequest(http.MethodGet, "/", 200, 0)
}
