package db

// TeamMember 团队页中的只读成员。
type TeamMember struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Bio   string `json:"bio,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// Partner 合作伙伴页中的只读条目。
type Partner struct {
	Name        string `json:"name"`
	Logo        string `json:"logo,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}
