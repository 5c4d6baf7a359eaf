package pagemodel

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidatePageModel(t *testing.T) {
	page := &PageDefinition{
		ID:    uuid.New(),
		Slug:  "home",
		Title: "Home",
		Theme: GlobalTheme{Direction: "ltr", Language: "en"},
	}

	cases := []struct {
		name    string
		model   *PageModel
		wantErr bool
	}{
		{
			name:    "nil model",
			model:   nil,
			wantErr: true,
		},
		{
			name:    "no components",
			model:   &PageModel{Page: page},
			wantErr: true,
		},
		{
			name: "valid",
			model: &PageModel{
				Page: page,
				Components: []*ComponentInstance{
					{OrderIndex: 0},
					{OrderIndex: 1},
				},
			},
		},
		{
			name: "duplicate order index",
			model: &PageModel{
				Page: page,
				Components: []*ComponentInstance{
					{OrderIndex: 0},
					{OrderIndex: 0},
				},
			},
			wantErr: true,
		},
		{
			name: "negative order index",
			model: &PageModel{
				Page: page,
				Components: []*ComponentInstance{
					{OrderIndex: -1},
				},
			},
			wantErr: true,
		},
		{
			name: "bad direction",
			model: &PageModel{
				Page: &PageDefinition{
					ID:    uuid.New(),
					Slug:  "rtl",
					Title: "RTL",
					Theme: GlobalTheme{Direction: "vertical"},
				},
				Components: []*ComponentInstance{{OrderIndex: 0}},
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePageModel(tc.model)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAddComponentInputValidate(t *testing.T) {
	valid := AddComponentInput{
		PageID:    uuid.New(),
		Type:      "hero",
		Variation: 1,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := AddComponentInput{Variation: 0, OrderIndex: -2}
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for zero-value input")
	}
}

func TestRegisterVariationInputValidate(t *testing.T) {
	valid := RegisterVariationInput{Type: "hero", Variation: 1, Template: "<div></div>"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := (RegisterVariationInput{Type: "hero", Variation: 1}).Validate(); err == nil {
		t.Fatal("expected error for empty template")
	}
	if err := (RegisterVariationInput{Type: "hero", Variation: 0, Template: "x"}).Validate(); err == nil {
		t.Fatal("expected error for non-positive variation")
	}
}
