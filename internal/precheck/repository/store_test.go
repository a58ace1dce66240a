package repository

import (
	"context"
	"testing"
	"time"

	roofdata "solar21_precheck/internal/roofdata/transport"
	"solar21_precheck/internal/scoring"
	"solar21_precheck/platform/apperr"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func sampleSession() *Session {
	area := 640.0
	return &Session{
		ID:       uuid.New(),
		Language: "fr",
		Role:     "partner",
		Sites: []Site{{
			Address: "Rue du Rhône 1, 1204 Genève",
			Roof:    &roofdata.RoofData{Found: true, SurfaceAreaM2: &area, Canton: "GE"},
			Answers: map[string]scoring.Answer{
				"owner":   scoring.TextAnswer("public"),
				"daytime": scoring.NumberAnswer(65),
			},
		}},
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func assertSameSession(t *testing.T, want, got *Session) {
	t.Helper()
	if got.ID != want.ID || got.Language != want.Language || len(got.Sites) != 1 {
		t.Fatalf("unexpected session %+v", got)
	}
	site := got.Sites[0]
	if site.Answers["owner"].String() != "public" {
		t.Fatalf("text answer lost: %v", site.Answers["owner"])
	}
	if v, ok := site.Answers["daytime"].Number(); !ok || v != 65 {
		t.Fatalf("numeric answer lost: %v", site.Answers["daytime"])
	}
	if area := site.RoofAreaM2(); area == nil || *area != 640 {
		t.Fatalf("roof area lost: %v", area)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(rdb, time.Hour)
	ctx := context.Background()

	session := sampleSession()
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assertSameSession(t, session, got)

	if ttl := mr.TTL(sessionKeyPrefix + session.ID.String()); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := store.Get(ctx, session.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected expired session to be not found, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	session := sampleSession()
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assertSameSession(t, session, got)

	got.Sites[0].Answers["owner"] = scoring.TextAnswer("private")
	again, _ := store.Get(ctx, session.ID)
	if again.Sites[0].Answers["owner"].String() != "public" {
		t.Fatalf("store must not share state with callers")
	}

	now = now.Add(time.Hour)
	if _, err := store.Get(ctx, session.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestSiteRoofAreaOverride(t *testing.T) {
	measured := 300.0
	override := 1200.0
	site := Site{Roof: &roofdata.RoofData{Found: true, SurfaceAreaM2: &measured}}
	if a := site.RoofAreaM2(); a == nil || *a != 300 {
		t.Fatalf("expected measured area, got %v", a)
	}
	site.RoofAreaOverrideM2 = &override
	if a := site.AnswerSet().RoofAreaM2; a == nil || *a != 1200 {
		t.Fatalf("expected override, got %v", a)
	}
	if a := (Site{Roof: &roofdata.RoofData{Found: false, SurfaceAreaM2: &measured}}).RoofAreaM2(); a != nil {
		t.Fatalf("unfound roofs must be absent, got %v", *a)
	}
}
