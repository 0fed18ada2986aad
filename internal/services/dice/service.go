package dice

import (
	"log/slog"
	"strconv"

	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/metrics"
)

// Rules maps each face, 1 through 6, to the drinking rule it triggers
var Rules = [6]string{
	"Everyone drinks",
	"Player drinks",
	"Give 2 drinks",
	"Categories",
	"Never have I ever",
	"Rule maker",
}

// Roll is the result of one throw
type Roll struct {
	Value int
	Rule  string
}

// Service throws the party die
type Service struct {
	random  random.Random
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new dice Service
func New(random random.Random, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		random:  random,
		metrics: metrics,
		logger:  logger,
	}
}

// Roll throws the die once
func (s *Service) Roll() Roll {
	value := s.random.Intn(len(Rules)) + 1
	s.metrics.DiceRolls.WithLabelValues(strconv.Itoa(value)).Inc()
	s.logger.Debug("dice rolled", slog.Int("value", value))
	return Roll{Value: value, Rule: Rules[value-1]}
}
