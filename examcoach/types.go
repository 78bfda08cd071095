package examcoach

import (
	"errors"
	"time"
)

var (
	// ErrInvalidRequest wraps request validation failures
	ErrInvalidRequest = errors.New("invalid exam request")
	// ErrExamNotFound is returned when evaluating an exam that is not (or no longer) stored
	ErrExamNotFound = errors.New("exam not found")
	// ErrUnknownQuestion is returned when an answer references a question outside the exam
	ErrUnknownQuestion = errors.New("unknown question")
)

// Difficulty is the requested exam difficulty
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// QuestionType is the answer format of a question
type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "mcq"
	QuestionTypeShortAnswer QuestionType = "short_answer"
)

// Question is a single served exam question
type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	// Options is only set for multiple choice questions
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Exam is a generated practice exam
type Exam struct {
	ID         string     `json:"id"`
	Subject    string     `json:"subject"`
	Topic      string     `json:"topic"`
	Category   string     `json:"category"` // bank subject the questions came from
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"time_limit"` // minutes
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GenerateRequest describes the exam to generate
type GenerateRequest struct {
	Subject       string         `json:"subject" validate:"required,max=100"`
	Topic         string         `json:"topic" validate:"required,max=200"`
	Difficulty    Difficulty     `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	QuestionCount int            `json:"question_count" validate:"gte=0"`
	TimeLimit     int            `json:"time_limit" validate:"gte=0,lte=240"`
	QuestionTypes []QuestionType `json:"question_types" validate:"dive,oneof=mcq short_answer"`
}

// Answer is a user's answer to one question
type Answer struct {
	QuestionID string `json:"question_id" validate:"required"`
	UserAnswer string `json:"user_answer"`
}

// EvaluateRequest submits answers for a generated exam
type EvaluateRequest struct {
	ExamID  string   `json:"exam_id" validate:"required"`
	Answers []Answer `json:"answers" validate:"dive"`
}

// QuestionResult is the grading outcome for one question
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// Evaluation is the graded result of an exam submission
type Evaluation struct {
	ExamID          string           `json:"exam_id"`
	Subject         string           `json:"subject"`
	Topic           string           `json:"topic"`
	Difficulty      Difficulty       `json:"difficulty"`
	Score           int              `json:"score"` // percent
	CorrectAnswers  int              `json:"correct_answers"`
	TotalQuestions  int              `json:"total_questions"`
	QuestionResults []QuestionResult `json:"question_results"`
	Feedback        string           `json:"feedback"`
	CompletedAt     time.Time        `json:"completed_at"`
}
