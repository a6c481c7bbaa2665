package route

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fetchsim/fetchsim"
	"github.com/google/go-cmp/cmp"
)

const ceiling = fetchsim.DefaultTimeout

func TestParse(t *testing.T) {
	tt := []struct {
		name    string
		key     string
		def     Definition
		want    map[string]MethodEntry
		wantErr error
	}{
		{
			name: "Single method",
			key:  "/test",
			def: Definition{
				"get": map[string]any{
					"response": "Test",
					"expect":   map[string]any{"status": 200},
					"wait":     100,
				},
			},
			want: map[string]MethodEntry{
				"GET": {Body: "Test", Wait: 100 * time.Millisecond, Expect: map[string]any{"status": 200}},
			},
		},
		{
			name: "Defaults",
			key:  "/test",
			def:  Definition{"get": map[string]any{}},
			want: map[string]MethodEntry{
				"GET": {Body: nil, Wait: 0, Expect: map[string]any{}},
			},
		},
		{
			name: "Nil method value uses defaults",
			key:  "/test",
			def:  Definition{"delete": nil},
			want: map[string]MethodEntry{
				"DELETE": {Expect: map[string]any{}},
			},
		},
		{
			name: "Multiple methods",
			key:  "/test",
			def: Definition{
				"post": map[string]any{
					"body":   "Posted",
					"expect": map[string]any{"status": 200},
					"wait":   200,
				},
				"PaTcH": map[string]any{
					"body":   "Patched",
					"expect": map[string]any{"statusText": "OK"},
				},
			},
			want: map[string]MethodEntry{
				"POST":  {Body: "Posted", Wait: 200 * time.Millisecond, Expect: map[string]any{"status": 200}},
				"PATCH": {Body: "Patched", Expect: map[string]any{"statusText": "OK"}},
			},
		},
		{
			name: "Typed entry",
			key:  "/typed",
			def: Definition{
				"put": Entry{Body: []string{"a"}, Wait: 1.5},
			},
			want: map[string]MethodEntry{
				"PUT": {Body: []string{"a"}, Wait: 1500 * time.Microsecond, Expect: map[string]any{}},
			},
		},
		{
			name: "Body wins over response",
			key:  "/both",
			def:  Definition{"get": map[string]any{"body": "new", "response": "old"}},
			want: map[string]MethodEntry{
				"GET": {Body: "new", Expect: map[string]any{}},
			},
		},
		{
			name: "Wait at the ceiling",
			key:  "/slow",
			def:  Definition{"get": map[string]any{"wait": 5000}},
			want: map[string]MethodEntry{
				"GET": {Wait: ceiling, Expect: map[string]any{}},
			},
		},
		{name: "Empty key", key: "", def: Definition{"get": nil}, wantErr: fetchsim.ErrInvalidArgument},
		{name: "Nil definition", key: "/s", def: nil, wantErr: fetchsim.ErrInvalidArgument},
		{name: "Empty definition", key: "/s", def: Definition{}, wantErr: fetchsim.ErrInvalidArgument},
		{name: "Empty method name", key: "/s", def: Definition{"": nil}, wantErr: fetchsim.ErrInvalidArgument},
		{name: "Method is not an object", key: "/s", def: Definition{"get": "s"}, wantErr: fetchsim.ErrInvalidArgument},
		{
			name:    "Expect is not an object",
			key:     "/s",
			def:     Definition{"get": map[string]any{"expect": "s"}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Wait is not a number",
			key:     "/s",
			def:     Definition{"get": map[string]any{"wait": "s"}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Negative wait",
			key:     "/s",
			def:     Definition{"get": map[string]any{"wait": -1}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Wait exceeds ceiling",
			key:     "/s",
			def:     Definition{"get": map[string]any{"wait": 10000}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Wait overflows a duration",
			key:     "/s",
			def:     Definition{"get": map[string]any{"wait": 1e19}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Wait is NaN",
			key:     "/s",
			def:     Definition{"get": map[string]any{"wait": math.NaN()}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Wait is infinite",
			key:     "/s",
			def:     Definition{"get": map[string]any{"wait": math.Inf(1)}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Wait is negative infinity",
			key:     "/s",
			def:     Definition{"get": map[string]any{"wait": math.Inf(-1)}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Unknown field",
			key:     "/s",
			def:     Definition{"get": map[string]any{"stauts": 200}},
			wantErr: fetchsim.ErrInvalidArgument,
		},
		{
			name:    "Same method twice",
			key:     "/s",
			def:     Definition{"get": nil, "GET": nil},
			wantErr: fetchsim.ErrInvalidArgument,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Parse(tc.key, tc.def, ceiling)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}

			if r.URL != tc.key {
				t.Errorf("expected url %q, got %q", tc.key, r.URL)
			}
			if diff := cmp.Diff(tc.want, r.Methods); diff != "" {
				t.Errorf("methods mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouteMethod(t *testing.T) {
	r, err := Parse("/test", Definition{"post": map[string]any{"body": "Posted"}, "get": nil}, ceiling)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"post", "POST", "PoSt"} {
		e, ok := r.Method(name)
		if !ok {
			t.Fatalf("expected %s to resolve", name)
		}
		if e.Body != "Posted" {
			t.Errorf("expected body Posted for %s, got %v", name, e.Body)
		}
	}

	if _, ok := r.Method("patch"); ok {
		t.Errorf("expected patch to be undefined")
	}

	if diff := cmp.Diff([]string{"GET", "POST"}, r.MethodNames()); diff != "" {
		t.Errorf("method names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAll(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		routes, err := ParseAll(map[string]Definition{
			"/a": {"get": nil},
			"/b": {"post": map[string]any{"wait": 10}},
		}, ceiling)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(routes) != 2 || routes["/a"].URL != "/a" || routes["/b"].URL != "/b" {
			t.Fatalf("unexpected routes: %v", routes)
		}
	})

	t.Run("One invalid definition fails the batch", func(t *testing.T) {
		routes, err := ParseAll(map[string]Definition{
			"/a": {"get": nil},
			"/b": {"get": map[string]any{"wait": "soon"}},
		}, ceiling)
		if !errors.Is(err, fetchsim.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if routes != nil {
			t.Errorf("expected no routes, got %v", routes)
		}
	})
}
