package models

import "testing"

func TestAccessPredicates(t *testing.T) {
	cases := []struct {
		name      string
		user      User
		wantAdmin bool
		wantEdit  bool
	}{
		{"admin", User{Role: RoleAdmin}, true, true},
		{"teacher", User{Role: RoleTeacher}, false, true},
		{"student", User{Role: RoleStudent}, false, false},
		{"superuser-student", User{Role: RoleStudent, IsSuperuser: true}, true, true},
		{"superuser-teacher", User{Role: RoleTeacher, IsSuperuser: true}, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.HasAdminAccess(); got != tc.wantAdmin {
				t.Fatalf("HasAdminAccess: ожидали %v, получили %v", tc.wantAdmin, got)
			}
			if got := tc.user.CanEdit(); got != tc.wantEdit {
				t.Fatalf("CanEdit: ожидали %v, получили %v", tc.wantEdit, got)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel("B1"); !ok || l != LevelB1 {
		t.Fatalf("B1 должен распознаваться, получили %v/%v", l, ok)
	}
	if _, ok := ParseLevel("Z9"); ok {
		t.Fatal("неизвестный уровень не должен распознаваться")
	}
	for _, l := range Levels {
		if _, ok := SeedCounts[l]; !ok {
			t.Fatalf("для уровня %s нет значения сидинга", l)
		}
	}
}
