package model

// CompletionStatus is the result of evaluating a learner's progress through a course.
type CompletionStatus struct {
	CourseID       uint    `json:"courseId"`
	CompletedCount int     `json:"completedCount"`
	TotalCount     int     `json:"totalCount"`
	Ratio          float64 `json:"ratio"`
	IsComplete     bool    `json:"isComplete"`
}

func NewCompletionStatus(courseID uint, completed, total int) *CompletionStatus {
	status := &CompletionStatus{
		CourseID:       courseID,
		CompletedCount: completed,
		TotalCount:     total,
	}
	if total > 0 {
		status.Ratio = float64(completed) / float64(total)
	}
	// an empty course is never complete
	status.IsComplete = total > 0 && completed == total
	return status
}

// LessonOutline is a lesson as shown to learners, with their completion flag.
type LessonOutline struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Duration  int    `json:"duration"`
	VideoURL  string `json:"videoUrl,omitempty"`
	Completed bool   `json:"completed"`
}

type ModuleOutline struct {
	ID      uint            `json:"id"`
	Title   string          `json:"title"`
	Order   int             `json:"order"`
	Lessons []LessonOutline `json:"lessons"`
}

type CourseOutline struct {
	ID          uint              `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       int64             `json:"price"`
	IsFree      bool              `json:"isFree"`
	Modules     []ModuleOutline   `json:"modules"`
	Completion  *CompletionStatus `json:"completion,omitempty"`
}
