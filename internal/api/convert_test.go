package api

import (
	"reflect"
	"testing"
)

func TestAPIRealm_ToRealm(t *testing.T) {
	tests := []struct {
		name          string
		in            APIRealm
		wantConnected []string
	}{
		{
			name:          "connected realms kept in order",
			in:            APIRealm{Name: "Aegwynn", Slug: "aegwynn", ConnectedRealms: []string{"aegwynn", "gurubashi", "hakkar"}},
			wantConnected: []string{"aegwynn", "gurubashi", "hakkar"},
		},
		{
			name:          "blank entries dropped",
			in:            APIRealm{Name: "Hakkar", Slug: "hakkar", ConnectedRealms: []string{" hakkar ", "", "  "}},
			wantConnected: []string{"hakkar"},
		},
		{
			name:          "no connections",
			in:            APIRealm{Name: "Solo", Slug: "solo"},
			wantConnected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ToRealm()
			if got.Slug != tt.in.Slug {
				t.Errorf("Slug = %q, want %q", got.Slug, tt.in.Slug)
			}
			if got.Name != tt.in.Name {
				t.Errorf("Name = %q, want %q", got.Name, tt.in.Name)
			}
			if !reflect.DeepEqual(got.Connected, tt.wantConnected) {
				t.Errorf("Connected = %v, want %v", got.Connected, tt.wantConnected)
			}
		})
	}
}
