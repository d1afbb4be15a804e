package dto

// TeacherQuery filters the teacher directory listing.
type TeacherQuery struct {
	Search    string `form:"search"`
	Active    *bool  `form:"active"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// RoomQuery filters the room directory listing.
type RoomQuery struct {
	Type        string `form:"type"`
	MinCapacity int    `form:"minCapacity"`
	Active      *bool  `form:"active"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
	SortBy      string `form:"sortBy"`
	SortOrder   string `form:"sortOrder"`
}

// DisciplineQuery filters the discipline directory listing.
type DisciplineQuery struct {
	CourseArea string `form:"courseArea"`
	Search     string `form:"search"`
	Active     *bool  `form:"active"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder"`
}
