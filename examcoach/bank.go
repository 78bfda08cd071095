package examcoach

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GenericCategory is the category reported when no bank subject matches
const GenericCategory = "General"

const topicPlaceholder = "{topic}"

//go:embed questions.yaml
var builtinBank []byte

// BankQuestion is a question template in the bank
type BankQuestion struct {
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectAnswer string   `yaml:"correct_answer"`
	Explanation   string   `yaml:"explanation"`
}

// Subject groups bank questions under match keywords
type Subject struct {
	Name      string         `yaml:"name"`
	Keywords  []string       `yaml:"keywords"`
	Questions []BankQuestion `yaml:"questions"`
}

// Bank is the full question bank
type Bank struct {
	Subjects []Subject      `yaml:"subjects"`
	Generic  []BankQuestion `yaml:"generic"`
}

// DefaultBank returns the built-in question bank
func DefaultBank() (*Bank, error) {
	return ParseBank(builtinBank)
}

// LoadBank reads a question bank from a YAML file
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}
	bank, err := ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bank, nil
}

// ParseBank decodes and validates a YAML question bank. Unknown keys are rejected.
func ParseBank(data []byte) (*Bank, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var bank Bank
	if err := dec.Decode(&bank); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("question bank is empty")
		}
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	if err := bank.validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (b *Bank) validate() error {
	if len(b.Generic) == 0 {
		return fmt.Errorf("question bank needs at least one generic question")
	}
	for i, q := range b.Generic {
		if err := q.validate(); err != nil {
			return fmt.Errorf("generic question %d: %w", i, err)
		}
	}

	seen := make(map[string]bool, len(b.Subjects))
	for _, s := range b.Subjects {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("subject without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate subject %q", s.Name)
		}
		seen[s.Name] = true

		if len(s.Keywords) == 0 {
			return fmt.Errorf("subject %q has no keywords", s.Name)
		}
		for _, kw := range s.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("subject %q has an empty keyword", s.Name)
			}
		}
		if len(s.Questions) == 0 {
			return fmt.Errorf("subject %q has no questions", s.Name)
		}
		for i, q := range s.Questions {
			if err := q.validate(); err != nil {
				return fmt.Errorf("subject %q question %d: %w", s.Name, i, err)
			}
		}
	}
	return nil
}

func (q BankQuestion) validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is empty")
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return fmt.Errorf("correct answer is empty")
	}
	if len(q.Options) == 0 {
		return nil
	}

	found := false
	unique := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if unique[opt] {
			return fmt.Errorf("duplicate option %q", opt)
		}
		unique[opt] = true
		if opt == q.CorrectAnswer {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("correct answer %q is not among the options", q.CorrectAnswer)
	}
	return nil
}

// Match returns the category and question pool for a requested subject.
// A subject matches when one of its keywords occurs in the request,
// case-insensitively; otherwise the generic pool is used.
func (b *Bank) Match(subject string) (string, []BankQuestion) {
	lower := strings.ToLower(subject)
	for _, s := range b.Subjects {
		for _, kw := range s.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return s.Name, s.Questions
			}
		}
	}
	return GenericCategory, b.Generic
}

// SubjectNames lists the bank subjects in declaration order
func (b *Bank) SubjectNames() []string {
	names := make([]string, 0, len(b.Subjects))
	for _, s := range b.Subjects {
		names = append(names, s.Name)
	}
	return names
}

func fillTopic(s, topic string) string {
	return strings.ReplaceAll(s, topicPlaceholder, topic)
}
