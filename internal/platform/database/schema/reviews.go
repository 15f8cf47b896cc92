package schema

// Reviews is the schema definition for the reviews table.
var Reviews = &Table{
	Name: "reviews",
	Columns: []Column{
		{Key: "id", Name: "id", Type: "uuid", ReadOnly: true},
		{Key: "review", Name: "review", Type: "text"},
		{Key: "rating", Name: "rating", Type: "double precision"},
		{Key: "tour", Name: "tour_id", Type: "uuid"},
		{Key: "user", Name: "user_id", Type: "uuid"},
		{Key: "created_at", Name: "created_at", Type: "timestamptz", ReadOnly: true},
		{Key: "version", Name: "version", Type: "integer", Hidden: true, ReadOnly: true},
	},
	Relations: []Relation{
		{
			Key:    "user",
			Kind:   One,
			Column: "user_id",
			Target: "users",
			Fields: []Column{
				{Key: "id", Name: "id"},
				{Key: "name", Name: "name"},
				{Key: "photo", Name: "photo"},
			},
		},
		{
			Key:    "tour",
			Kind:   One,
			Column: "tour_id",
			Target: "tours",
			Fields: []Column{
				{Key: "id", Name: "id"},
				{Key: "name", Name: "name"},
				{Key: "slug", Name: "slug"},
			},
		},
	},
}
