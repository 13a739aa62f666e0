package rbac

// Default policy. Students get the test-taking surface; admins get
// everything, including the irreversible purge.
var RolePermissions = map[string][]string{
	"student": {
		"exam:list",
		"exam:view",
		"exam:submit",
		"violation:record",
	},
	"admin": {
		"*",
	},
}
