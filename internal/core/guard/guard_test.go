package guard

import (
	"testing"

	"github.com/fullstacktime/projectman/internal/core/domain"
)

func TestCheck(t *testing.T) {
	worker := &domain.User{Username: "worker1", Role: domain.RoleWorker}
	admin := &domain.User{Username: "admin1", Role: domain.RoleAdmin}

	cases := []struct {
		name    string
		user    *domain.User
		allowed []domain.Role
		want    Decision
	}{
		{"no user", nil, []domain.Role{domain.RoleWorker}, RedirectLogin},
		{"no user, no roles", nil, nil, RedirectLogin},
		{"worker on worker route", worker, []domain.Role{domain.RoleWorker}, Allow},
		{"admin on admin route", admin, []domain.Role{domain.RoleAdmin}, Allow},
		{"admin on worker route", admin, []domain.Role{domain.RoleWorker}, RedirectHome},
		{"worker on admin route", worker, []domain.Role{domain.RoleAdmin}, RedirectHome},
		{"multiple roles accepted", admin, []domain.Role{domain.RoleWorker, domain.RoleAdmin}, Allow},
		{"empty allow list", worker, nil, RedirectHome},
	}
	for _, tc := range cases {
		if got := Check(tc.user, tc.allowed...); got != tc.want {
			t.Errorf("%s: Check = %v, want %v", tc.name, got, tc.want)
		}
	}
}
