package model

// PlaceholderVideo marks lessons whose media has not been uploaded yet.
const PlaceholderVideo = "placeholder"

// swagger:model Course
type Course struct {
	RecordBase
	Slug        string   `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Price       int64    `gorm:"not null;default:0" json:"price"` // minor currency units
	IsFree      bool     `gorm:"default:false" json:"isFree"`
	IsPublished bool     `gorm:"default:false;index" json:"isPublished"`
	Modules     []Module `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Module
type Module struct {
	RecordBase
	CourseID uint     `gorm:"not null;uniqueIndex:idx_module_course_order" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Order    int      `gorm:"column:sort_order;not null;uniqueIndex:idx_module_course_order" json:"order"`
	Lessons  []Lesson `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// swagger:model Lesson
type Lesson struct {
	RecordBase
	ModuleID    uint   `gorm:"not null;uniqueIndex:idx_lesson_module_order" json:"moduleId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"column:sort_order;not null;uniqueIndex:idx_lesson_module_order" json:"order"`
	VideoURL    string `gorm:"size:512;default:'placeholder'" json:"videoUrl"`
	Duration    int    `gorm:"default:0" json:"duration"` // seconds
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l *Lesson) HasVideo() bool {
	return l.VideoURL != "" && l.VideoURL != PlaceholderVideo
}
