package schema

// Bookings is the schema definition for the bookings table.
var Bookings = &Table{
	Name: "bookings",
	Columns: []Column{
		{Key: "id", Name: "id", Type: "uuid", ReadOnly: true},
		{Key: "tour", Name: "tour_id", Type: "uuid"},
		{Key: "user", Name: "user_id", Type: "uuid"},
		{Key: "price", Name: "price", Type: "double precision"},
		{Key: "paid", Name: "paid", Type: "boolean"},
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
				{Key: "email", Name: "email"},
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
				{Key: "image_cover", Name: "image_cover"},
				{Key: "price", Name: "price"},
				{Key: "duration", Name: "duration"},
				{Key: "summary", Name: "summary"},
				{Key: "difficulty", Name: "difficulty"},
				{Key: "start_dates", Name: "start_dates"},
				{Key: "max_group_size", Name: "max_group_size"},
				{Key: "ratings_average", Name: "ratings_average"},
			},
		},
	},
}
