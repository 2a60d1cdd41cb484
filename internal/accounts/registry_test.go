package accounts

import (
	"testing"

	"fintrack/internal/core"
)

func TestCreateAssignsSequentialIDs(t *testing.T) {
	r := NewRegistry(DefaultSeed()...)
	if r.Len() != 1 {
		t.Fatalf("expected 1 seed account, got %d", r.Len())
	}

	a := r.Create("Ana", "ana@example.com", "pw")
	if a.ID != "2" {
		t.Fatalf("expected id 2, got %s", a.ID)
	}
	if a.IsAdmin {
		t.Fatalf("new accounts must not be admin")
	}
	b := r.Create("Ben", "ben@example.com", "pw")
	if b.ID != "3" {
		t.Fatalf("expected id 3, got %s", b.ID)
	}
}

func TestFindByEmailAndSecret(t *testing.T) {
	r := NewRegistry()
	r.Create("Ana", "ana@example.com", "right")

	cases := []struct {
		email, secret string
		ok            bool
	}{
		{"ana@example.com", "right", true},
		{"ana@example.com", "wrong", false},
		{"other@example.com", "right", false},
	}
	for i, tc := range cases {
		got, ok := r.FindByEmailAndSecret(tc.email, tc.secret)
		if ok != tc.ok {
			t.Fatalf("case %d expected ok=%v", i, tc.ok)
		}
		if ok && got.Email != tc.email {
			t.Fatalf("case %d wrong account: %+v", i, got)
		}
	}
}

func TestExistsByEmail(t *testing.T) {
	r := NewRegistry(core.Account{ID: "1", Name: "Demo", Email: "demo@x.com", Secret: "s"})
	if !r.ExistsByEmail("demo@x.com") {
		t.Fatalf("expected existing email to be found")
	}
	if r.ExistsByEmail("nobody@x.com") {
		t.Fatalf("unexpected match")
	}
}
