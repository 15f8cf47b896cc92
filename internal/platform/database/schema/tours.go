package schema

// Tours is the schema definition for the tours table.
var Tours = &Table{
	Name: "tours",
	Columns: []Column{
		{Key: "id", Name: "id", Type: "uuid", ReadOnly: true},
		{Key: "name", Name: "name", Type: "text"},
		{Key: "slug", Name: "slug", Type: "text"},
		{Key: "duration", Name: "duration", Type: "integer"},
		{Key: "max_group_size", Name: "max_group_size", Type: "integer"},
		{Key: "difficulty", Name: "difficulty", Type: "text"},
		{Key: "ratings_average", Name: "ratings_average", Type: "double precision"},
		{Key: "ratings_quantity", Name: "ratings_quantity", Type: "integer"},
		{Key: "price", Name: "price", Type: "double precision"},
		{Key: "price_discount", Name: "price_discount", Type: "double precision"},
		{Key: "summary", Name: "summary", Type: "text"},
		{Key: "description", Name: "description", Type: "text"},
		{Key: "image_cover", Name: "image_cover", Type: "text"},
		{Key: "images", Name: "images", Type: "text"},
		{Key: "start_dates", Name: "start_dates", Type: "timestamptz"},
		{Key: "secret_tour", Name: "secret_tour", Type: "boolean"},
		{Key: "start_location", Name: "start_location", Type: "jsonb"},
		{Key: "locations", Name: "locations", Type: "jsonb"},
		{Key: "guides", Name: "guides", Type: "uuid"},
		{Key: "duration_weeks", Type: "double precision", Expr: "round(t.duration / 7.0, 2)"},
		{Key: "created_at", Name: "created_at", Type: "timestamptz", ReadOnly: true},
		{Key: "version", Name: "version", Type: "integer", Hidden: true, ReadOnly: true},
	},
	Relations: []Relation{
		{
			Key:    "guides",
			Kind:   Many,
			Column: "guides",
			Target: "users",
			Fields: []Column{
				{Key: "id", Name: "id"},
				{Key: "name", Name: "name"},
				{Key: "email", Name: "email"},
				{Key: "photo", Name: "photo"},
				{Key: "role", Name: "role"},
			},
		},
		{
			Key:     "reviews",
			Kind:    Inverse,
			Target:  "reviews",
			Foreign: "tour_id",
			Fields: []Column{
				{Key: "id", Name: "id"},
				{Key: "review", Name: "review"},
				{Key: "rating", Name: "rating"},
				{Key: "created_at", Name: "created_at"},
				{Key: "tour", Name: "tour_id"},
				{Key: "user", Expr: "(SELECT jsonb_build_object('id', u.id, 'name', u.name, 'photo', u.photo) FROM users AS u WHERE u.id = r.user_id)"},
			},
		},
	},
}
