package models

// DateLayout is how Post.Date is stamped, e.g. "August 24, 2026".
const DateLayout = "January 02, 2006"

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"author"`
	Title    string `gorm:"size:250;uniqueIndex;not null" json:"title"`
	Subtitle string `gorm:"size:250;not null" json:"subtitle"`
	Date     string `gorm:"size:250;not null" json:"date"` // set once at creation
	Body     string `gorm:"type:text;not null" json:"body"`
	ImgURL   string `gorm:"column:img_url;size:250;not null" json:"img_url"`

	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (Post) TableName() string {
	return "blog_posts"
}
