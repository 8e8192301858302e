package auth

import (
	"fmt"

	"go-agency-site/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures that the application has a baseline set of
// authorization rules for the admin area. It checks if each default policy
// exists before adding it, making the operation idempotent and safe to run
// on every application start.
//
// The role chain is admin > editor > viewer: viewers see the admin post
// list read-only, editors additionally create and edit posts, and only
// admins delete posts and manage users.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	policies := [][]string{
		// Viewers can see the dashboard post list, nothing more.
		{"viewer", "/admin/dashboard", "GET"},

		// Editors can reach the editor, save and preview posts, flip
		// publish status, and upload images.
		{"editor", "/admin/editor", "GET"},
		{"editor", "/admin/editor/:id", "GET"},
		{"editor", "/admin/posts/save", "POST"},
		{"editor", "/admin/posts/preview", "POST"},
		{"editor", "/admin/posts/:id/toggle", "POST"},
		{"editor", "/admin/images", "POST"},
		{"editor", "/api/search/categories", "GET"},

		// Admins can delete posts and manage users.
		{"admin", "/admin/posts/:id/delete", "POST"},
		{"admin", "/admin/users", "GET"},
		{"admin", "/admin/users/create", "POST"},
		{"admin", "/admin/users/:id/role", "POST"},
		{"admin", "/admin/contacts", "GET"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Role inheritance: each role gains everything the one below it has.
	roleLinks := [][2]string{
		{"editor", "viewer"},
		{"admin", "editor"},
	}
	for _, link := range roleLinks {
		if has, _ := e.HasRoleForUser(link[0], link[1]); !has {
			if _, err := e.AddRoleForUser(link[0], link[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role %q -> %q", link[0], link[1]))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
