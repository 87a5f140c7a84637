package blogs

// Blog is a post served by the content API.
type Blog struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"des,omitempty"`
	Content     string   `json:"content,omitempty"`
	Image       string   `json:"image,omitempty"`
	Author      string   `json:"author,omitempty"`
	Category    string   `json:"cat,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ReadTime    string   `json:"readTime,omitempty"`
	Views       int      `json:"views"`
	Comments    int      `json:"comments"`
	Likes       int      `json:"likes"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// Detail pairs a blog with the caller's like state and related posts.
type Detail struct {
	Blog    Blog   `json:"blog"`
	Liked   bool   `json:"liked"`
	Related []Blog `json:"related"`
}

// LikeResult is returned after toggling a like.
type LikeResult struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
	Liked bool   `json:"liked"`
}

// CategoryAll selects every post.
const CategoryAll = "all"

// Categories returns "all" followed by each distinct non-empty category in first-seen order.
func Categories(list []Blog) []string {
	out := []string{CategoryAll}
	seen := make(map[string]struct{})
	for _, b := range list {
		if b.Category == "" {
			continue
		}
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		out = append(out, b.Category)
	}
	return out
}

// FilterByCategory keeps posts in category; "" and "all" keep everything.
func FilterByCategory(list []Blog, category string) []Blog {
	if category == "" || category == CategoryAll {
		return list
	}
	out := make([]Blog, 0, len(list))
	for _, b := range list {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out
}
