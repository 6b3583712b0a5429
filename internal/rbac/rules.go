package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"participant": {
		"assessment:view",
		"assessment:submit",
		"session:create",
		"session:save",
		"session:complete",
		"session:view-own",
		"journal:create",
		"journal:view-own",
		"journal:delete-own",
		"suggestions:view",
		"stats:view-own",
	},
	"researcher": {
		"assessment:view",
		"stats:view-aggregate",
		"export:create",
	},
	"admin": {
		"*", // everything
	},
}
