package schema

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	cases := []struct {
		name    string
		mutate  func(*Form)
		wantErr string
	}{
		{
			name:   "valid form",
			mutate: func(*Form) {},
		},
		{
			name:    "missing form id",
			mutate:  func(f *Form) { f.ID = "" },
			wantErr: "form id is required",
		},
		{
			name:    "no sections",
			mutate:  func(f *Form) { f.Sections = nil },
			wantErr: "at least one section",
		},
		{
			name: "empty section",
			mutate: func(f *Form) {
				f.Sections[1].Fields = nil
			},
			wantErr: "has no fields",
		},
		{
			name: "duplicate field id",
			mutate: func(f *Form) {
				f.Sections[1].Fields[0].ID = "email"
			},
			wantErr: `duplicate field id "email"`,
		},
		{
			name: "unknown kind",
			mutate: func(f *Form) {
				f.Sections[0].Fields[0].Kind = "slider"
			},
			wantErr: "unknown kind",
		},
		{
			name: "select without options",
			mutate: func(f *Form) {
				f.Sections[1].Fields[1].Options = nil
			},
			wantErr: "requires options",
		},
		{
			name: "options on text field",
			mutate: func(f *Form) {
				f.Sections[0].Fields[0].Options = []Option{{Value: "x"}}
			},
			wantErr: "does not accept options",
		},
		{
			name: "inverted length bounds",
			mutate: func(f *Form) {
				f.Sections[1].Fields[0].MinLength = intPtr(50)
				f.Sections[1].Fields[0].MaxLength = intPtr(10)
			},
			wantErr: "exceeds maxLength",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := testForm()
			tc.mutate(&form)

			err := Validate(form)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}
