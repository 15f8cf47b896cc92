package schema

// Users is the schema definition for the users table.
var Users = &Table{
	Name: "users",
	Columns: []Column{
		{Key: "id", Name: "id", Type: "uuid", ReadOnly: true},
		{Key: "name", Name: "name", Type: "text"},
		{Key: "email", Name: "email", Type: "text"},
		{Key: "photo", Name: "photo", Type: "text"},
		{Key: "role", Name: "role", Type: "text"},
		{Key: "active", Name: "active", Type: "boolean", Hidden: true},
		{Key: "password_hash", Name: "password_hash", Private: true},
		{Key: "password_changed_at", Name: "password_changed_at", Type: "timestamptz", Private: true},
		{Key: "password_reset_token", Name: "password_reset_token", Private: true},
		{Key: "password_reset_expires", Name: "password_reset_expires", Private: true},
		{Key: "created_at", Name: "created_at", Type: "timestamptz", ReadOnly: true},
		{Key: "version", Name: "version", Type: "integer", Hidden: true, ReadOnly: true},
	},
}
