package examcoach

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultQuestionCount = 10
	noAnswer             = "No answer"
)

// Options tunes a Coach
type Options struct {
	MaxQuestions     int // upper bound on question_count
	DefaultTimeLimit int // minutes, used when the request leaves it unset
	CacheSize        int // number of generated exams kept for evaluation
}

// Coach generates and grades practice exams
type Coach struct {
	bank     *Bank
	exams    *lru.Cache[string, *Exam]
	validate *validator.Validate
	opts     Options

	now   func() time.Time
	newID func() string
}

// New creates a Coach backed by bank
func New(bank *Bank, opts Options) (*Coach, error) {
	if bank == nil {
		return nil, fmt.Errorf("question bank is required")
	}
	if opts.MaxQuestions <= 0 {
		return nil, fmt.Errorf("max questions must be positive")
	}
	if opts.DefaultTimeLimit <= 0 {
		return nil, fmt.Errorf("default time limit must be positive")
	}

	exams, err := lru.New[string, *Exam](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create exam store: %w", err)
	}

	return &Coach{
		bank:     bank,
		exams:    exams,
		validate: validator.New(),
		opts:     opts,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

// Subjects lists the subjects with dedicated questions
func (c *Coach) Subjects() []string {
	return c.bank.SubjectNames()
}

// Exam returns a stored exam by ID
func (c *Coach) Exam(id string) (*Exam, bool) {
	return c.exams.Get(id)
}

// Generate builds an exam for req and stores it for later evaluation.
// Question i uses type QuestionTypes[i%len] and bank entry pool[i%len],
// so counts larger than the pool repeat questions.
func (c *Coach) Generate(req GenerateRequest) (*Exam, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Topic = strings.TrimSpace(req.Topic)
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if req.Difficulty == "" {
		req.Difficulty = DifficultyIntermediate
	}
	if req.QuestionCount > c.opts.MaxQuestions {
		return nil, fmt.Errorf("%w: question_count %d exceeds the maximum of %d",
			ErrInvalidRequest, req.QuestionCount, c.opts.MaxQuestions)
	}
	if req.QuestionCount == 0 {
		req.QuestionCount = min(defaultQuestionCount, c.opts.MaxQuestions)
	}
	if req.TimeLimit == 0 {
		req.TimeLimit = c.opts.DefaultTimeLimit
	}
	if len(req.QuestionTypes) == 0 {
		req.QuestionTypes = []QuestionType{QuestionTypeMCQ}
	}

	category, pool := c.bank.Match(req.Subject)

	questions := make([]Question, req.QuestionCount)
	for i := range questions {
		questions[i] = c.buildQuestion(pool[i%len(pool)], req.QuestionTypes[i%len(req.QuestionTypes)], req.Topic)
	}

	exam := &Exam{
		ID:         c.newID(),
		Subject:    req.Subject,
		Topic:      req.Topic,
		Category:   category,
		Difficulty: req.Difficulty,
		TimeLimit:  req.TimeLimit,
		Questions:  questions,
		CreatedAt:  c.now().UTC(),
	}
	c.exams.Add(exam.ID, exam)

	return exam, nil
}

func (c *Coach) buildQuestion(src BankQuestion, qType QuestionType, topic string) Question {
	q := Question{
		ID:            c.newID(),
		Type:          qType,
		Question:      fillTopic(src.Question, topic),
		CorrectAnswer: fillTopic(src.CorrectAnswer, topic),
		Explanation:   fillTopic(src.Explanation, topic),
	}
	if q.Explanation == "" {
		q.Explanation = fmt.Sprintf("This question tests your understanding of %s.", topic)
	}

	if qType == QuestionTypeMCQ {
		if len(src.Options) == 0 {
			// nothing to choose from
			q.Type = QuestionTypeShortAnswer
			return q
		}
		q.Options = make([]string, len(src.Options))
		for i, opt := range src.Options {
			q.Options[i] = fillTopic(opt, topic)
		}
	}
	return q
}

// Evaluate grades answers against a stored exam. Answers are compared
// ignoring surrounding whitespace and case. A repeated question ID keeps the
// last answer.
func (c *Coach) Evaluate(req EvaluateRequest) (*Evaluation, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	exam, ok := c.exams.Get(req.ExamID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExamNotFound, req.ExamID)
	}

	known := make(map[string]bool, len(exam.Questions))
	for _, q := range exam.Questions {
		known[q.ID] = true
	}
	answers := make(map[string]string, len(req.Answers))
	for _, a := range req.Answers {
		if !known[a.QuestionID] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, a.QuestionID)
		}
		answers[a.QuestionID] = a.UserAnswer
	}

	results := make([]QuestionResult, 0, len(exam.Questions))
	correct := 0
	for _, q := range exam.Questions {
		userAnswer := strings.TrimSpace(answers[q.ID])
		isCorrect := userAnswer != "" && strings.EqualFold(userAnswer, strings.TrimSpace(q.CorrectAnswer))
		if isCorrect {
			correct++
		}
		if userAnswer == "" {
			userAnswer = noAnswer
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	total := len(exam.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) * 100 / float64(total)))
	}

	return &Evaluation{
		ExamID:          exam.ID,
		Subject:         exam.Subject,
		Topic:           exam.Topic,
		Difficulty:      exam.Difficulty,
		Score:           score,
		CorrectAnswers:  correct,
		TotalQuestions:  total,
		QuestionResults: results,
		Feedback:        Feedback(score),
		CompletedAt:     c.now().UTC(),
	}, nil
}

// Feedback returns the coaching message for a percentage score
func Feedback(score int) string {
	switch {
	case score >= 80:
		return "Excellent work!"
	case score >= 60:
		return "Good job! Keep practicing."
	default:
		return "Keep studying and try again."
	}
}
