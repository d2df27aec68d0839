package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/maglieria/storefront/internal/application"
	"github.com/maglieria/storefront/internal/application/apptest"
	"github.com/maglieria/storefront/internal/domain"
)

func TestParseImageMap(t *testing.T) {
	t.Parallel()

	want := map[string]string{"it": "nera-it.jpg", "en": "nera-en.jpg"}
	valid := map[string]string{
		"object":        `{"it":"nera-it.jpg","en":"nera-en.jpg"}`,
		"string object": `"{\"it\":\"nera-it.jpg\",\"en\":\"nera-en.jpg\"}"`,
	}
	for name, raw := range valid {
		got, err := application.ParseImageMap([]byte(raw))
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got %v", name, got)
		}
	}

	for _, raw := range []string{"", "null", `""`} {
		got, err := application.ParseImageMap([]byte(raw))
		if err != nil || len(got) != 0 {
			t.Fatalf("%q: expected empty map, got %v (%v)", raw, got, err)
		}
	}

	invalid := []string{`[1,2]`, `"not json"`, `{"it":42}`, `{"it":""}`, `{bad`, `"[\"a\"]"`}
	for _, raw := range invalid {
		if _, err := application.ParseImageMap([]byte(raw)); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected validation error, got %v", raw, err)
		}
	}
}

func TestProductImageRoundTripAndFallback(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()

	images, _ := json.Marshal(`{"Italiano":"nera-it.jpg","English":"nera-en.jpg"}`)
	created, err := f.Service.CreateProduct(ctx, application.ProductInput{
		Name:       "Maglietta Nera",
		Price:      decimal.RequireFromString("19.99"),
		Sizes:      []string{"M", "L", "M", " "},
		Languages:  []string{"Italiano", "English", "Deutsch"},
		CoverImage: "nera.jpg",
		Images:     images,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !reflect.DeepEqual(created.Sizes, []string{"M", "L"}) || created.DefaultSize != "M" || created.DefaultLanguage != "Italiano" {
		t.Fatalf("unexpected product: %+v", created)
	}

	got, err := f.Service.GetProduct(ctx, created.ID, "English")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !reflect.DeepEqual(got.Images, map[string]string{"Italiano": "nera-it.jpg", "English": "nera-en.jpg"}) {
		t.Fatalf("image map did not round trip: %v", got.Images)
	}
	if got.DisplayImage != "nera-en.jpg" {
		t.Fatalf("expected language image, got %q", got.DisplayImage)
	}

	fallback, _ := f.Service.GetProduct(ctx, created.ID, "Deutsch")
	if fallback.DisplayImage != "nera.jpg" {
		t.Fatalf("expected cover fallback, got %q", fallback.DisplayImage)
	}
	plain, _ := f.Service.GetProduct(ctx, created.ID, "")
	if plain.DisplayImage != "" {
		t.Fatalf("display image is only resolved on request")
	}
}

func TestProductValidationAndLifecycle(t *testing.T) {
	t.Parallel()

	f := apptest.NewFixture()
	ctx := context.Background()
	base := application.ProductInput{
		Name:      "Maglietta Blu",
		Price:     decimal.RequireFromString("12.50"),
		Sizes:     []string{"S"},
		Languages: []string{"it"},
	}

	bad := []application.ProductInput{
		{Price: base.Price, Sizes: base.Sizes, Languages: base.Languages},
		{Name: "x", Price: decimal.RequireFromString("-1"), Sizes: base.Sizes, Languages: base.Languages},
		{Name: "x", Price: decimal.RequireFromString("1.999"), Sizes: base.Sizes, Languages: base.Languages},
		{Name: "x", Price: base.Price, Languages: base.Languages},
		{Name: "x", Price: base.Price, Sizes: base.Sizes, Languages: base.Languages, Images: json.RawMessage(`[]`)},
	}
	for i, in := range bad {
		if _, err := f.Service.CreateProduct(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}

	created, err := f.Service.CreateProduct(ctx, base)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	base.Price = decimal.RequireFromString("14.00")
	updated, err := f.Service.UpdateProduct(ctx, created.ID, base)
	if err != nil || !updated.Price.Equal(decimal.RequireFromString("14")) {
		t.Fatalf("update failed: %+v %v", updated, err)
	}
	if _, err := f.Service.UpdateProduct(ctx, 999, base); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := f.Service.ListProducts(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one product, got %d (%v)", len(list), err)
	}
	if err := f.Service.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.Service.GetProduct(ctx, created.ID, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
