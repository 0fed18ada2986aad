package questions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/partygames/internal/model"
)

// File is the YAML document used to import and export the bank
type File struct {
	Questions []Record `yaml:"questions"`
}

// Record is one question in a File
type Record struct {
	Type      string  `yaml:"type"`
	Mode      string  `yaml:"mode"`
	Content   string  `yaml:"content"`
	ContentEN *string `yaml:"contentEn,omitempty"`
	Active    *bool   `yaml:"active,omitempty"`
}

func (r Record) toNewQuestion() NewQuestion {
	return NewQuestion{
		Type:      model.ChallengeType(r.Type),
		Mode:      model.Mode(r.Mode),
		Content:   r.Content,
		ContentEN: r.ContentEN,
		Active:    r.Active,
	}
}

// Import reads a YAML File and creates every question in it. The whole file
// is validated before anything is stored, so an invalid record stores
// nothing. A store failure part way returns an *ImportError; the records
// before it remain stored.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	for i, rec := range file.Questions {
		if err := rec.toNewQuestion().build().Validate(); err != nil {
			return 0, &RecordError{Index: i, Err: err}
		}
	}

	for i, rec := range file.Questions {
		if _, err := s.Create(ctx, rec.toNewQuestion()); err != nil {
			return i, &ImportError{Imported: i, Err: err}
		}
	}

	s.logger.Info("questions imported", slog.Int("count", len(file.Questions)))
	return len(file.Questions), nil
}

// Export writes every question, inactive ones included, as a YAML File
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	all, err := s.store.ListQuestions(ctx, model.QuestionFilter{})
	if err != nil {
		return err
	}

	file := File{Questions: make([]Record, 0, len(all))}
	for _, q := range all {
		active := q.Active
		file.Questions = append(file.Questions, Record{
			Type:      string(q.Type),
			Mode:      string(q.Mode),
			Content:   q.Content,
			ContentEN: q.ContentEN,
			Active:    &active,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}

// SeedFromFile imports path when the bank is empty. It reports how many
// questions were imported.
func (s *Service) SeedFromFile(ctx context.Context, path string) (int, error) {
	count, err := s.store.CountQuestions(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("question bank already populated, skipping seed", slog.Int("count", count))
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return s.Import(ctx, f)
}
