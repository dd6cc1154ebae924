package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/artfolio/internal/store"
	"github.com/google/go-cmp/cmp"
)

func TestArtworkCreateThenListIncludesUploadedURL(t *testing.T) {
	st := newCountingStore(t)
	uploader := &fakeUploader{}
	svc := NewArtworkService(st, uploader, true, nil)
	ctx := adminContext("admin")

	created, err := svc.Create(ctx, ArtworkInput{Title: "Dawn", Description: "oil on canvas", Category: "traditional"}, imageFile("dawn.png"))
	if err != nil {
		t.Fatalf("create artwork: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected artwork id")
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list artworks: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 artwork, got %d", len(items))
	}
	got := items[0]
	want := Artwork{
		ID:          created.ID,
		Title:       "Dawn",
		Description: "oil on canvas",
		Category:    "traditional",
		ImageURL:    "https://cdn.test/dawn.png",
		PublicID:    "asset-dawn.png",
		Width:       800,
		Height:      600,
		CreatedAt:   created.CreatedAt,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("listed artwork mismatch (-want +got):\n%s", diff)
	}
}

func TestArtworkValidation(t *testing.T) {
	st := newCountingStore(t)
	uploader := &fakeUploader{}
	svc := NewArtworkService(st, uploader, true, nil)
	ctx := adminContext("admin")

	cases := []struct {
		input ArtworkInput
		field string
	}{
		{ArtworkInput{Description: "d", Category: "c"}, "title"},
		{ArtworkInput{Title: "t", Category: "c"}, "description"},
		{ArtworkInput{Title: "t", Description: "d"}, "category"},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, tc.input, imageFile("x.png"))
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Fatalf("expected validation error on %s, got %v", tc.field, err)
		}
	}
	if _, err := svc.Create(ctx, ArtworkInput{Title: "t", Description: "d", Category: "c"}, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected missing image to fail validation, got %v", err)
	}
	if uploader.Uploads() != 0 || st.Total() != 0 {
		t.Fatalf("expected no network calls, got %d uploads and %d store calls", uploader.Uploads(), st.Total())
	}
}

func TestArtworkAuthGateIsConfigurable(t *testing.T) {
	input := ArtworkInput{Title: "t", Description: "d", Category: "digital"}

	gated := NewArtworkService(newCountingStore(t), &fakeUploader{}, true, nil)
	if _, err := gated.Create(context.Background(), input, imageFile("a.png")); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if err := gated.Delete(context.Background(), "x"); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired on delete, got %v", err)
	}

	open := NewArtworkService(newCountingStore(t), &fakeUploader{}, false, nil)
	if _, err := open.Create(context.Background(), input, imageFile("a.png")); err != nil {
		t.Fatalf("expected anonymous create to succeed when the gate is off, got %v", err)
	}
}

func TestArtworkUpdateReplacesImageAndRemovesOld(t *testing.T) {
	st := newCountingStore(t)
	uploader := &fakeUploader{}
	svc := NewArtworkService(st, uploader, true, nil)
	svc.clock = stepClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	ctx := adminContext("admin")

	created, err := svc.Create(ctx, ArtworkInput{Title: "Old", Description: "d", Category: "digital"}, imageFile("old.png"))
	if err != nil {
		t.Fatalf("create artwork: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, ArtworkInput{Title: "New", Description: "d2", Category: "illustration"}, nil)
	if err != nil {
		t.Fatalf("update without image: %v", err)
	}
	if updated.ImageURL != created.ImageURL || len(uploader.Removed()) != 0 {
		t.Fatalf("expected image to be kept, got %q removed=%v", updated.ImageURL, uploader.Removed())
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected createdAt to be kept")
	}

	updated, err = svc.Update(ctx, created.ID, ArtworkInput{Title: "New", Description: "d2", Category: "illustration"}, imageFile("new.png"))
	if err != nil {
		t.Fatalf("update with image: %v", err)
	}
	if updated.ImageURL != "https://cdn.test/new.png" {
		t.Fatalf("unexpected image url %q", updated.ImageURL)
	}
	if diff := cmp.Diff([]string{"asset-old.png"}, uploader.Removed()); diff != "" {
		t.Fatalf("removed assets mismatch (-want +got):\n%s", diff)
	}

	stored, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get artwork: %v", err)
	}
	if stored.Title != "New" || stored.Category != "illustration" || stored.ImageURL != updated.ImageURL {
		t.Fatalf("unexpected stored artwork %#v", stored)
	}
	if stored.UpdatedAt == nil {
		t.Fatal("expected updatedAt to be stamped")
	}
}

func TestArtworkDelete(t *testing.T) {
	st := newCountingStore(t)
	uploader := &fakeUploader{}
	svc := NewArtworkService(st, uploader, true, nil)
	ctx := adminContext("admin")

	created, err := svc.Create(ctx, ArtworkInput{Title: "t", Description: "d", Category: "digital"}, imageFile("gone.png"))
	if err != nil {
		t.Fatalf("create artwork: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete artwork: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if diff := cmp.Diff([]string{"asset-gone.png"}, uploader.Removed()); diff != "" {
		t.Fatalf("removed assets mismatch (-want +got):\n%s", diff)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestArtworkUpdateWriteFailureKeepsOldAsset(t *testing.T) {
	st := newCountingStore(t)
	uploader := &fakeUploader{}
	svc := NewArtworkService(st, uploader, true, nil)
	ctx := adminContext("admin")

	created, err := svc.Create(ctx, ArtworkInput{Title: "t", Description: "d", Category: "digital"}, imageFile("keep.png"))
	if err != nil {
		t.Fatalf("create artwork: %v", err)
	}
	st.failUpdate = errWriteRejected
	if _, err := svc.Update(ctx, created.ID, ArtworkInput{Title: "t", Description: "d", Category: "digital"}, imageFile("next.png")); !errors.Is(err, errWriteRejected) {
		t.Fatalf("expected write error, got %v", err)
	}
	if removed := uploader.Removed(); len(removed) != 0 {
		t.Fatalf("expected no removal after failed write, got %v", removed)
	}
}
