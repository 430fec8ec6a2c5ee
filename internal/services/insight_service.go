package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/scholalink/school-service/internal/config"
	"github.com/scholalink/school-service/internal/repositories"
)

// Fallback copy shown when the AI provider is down or unconfigured. The
// product treats insights as decoration, so failures degrade to these
// instead of erroring the page.
const (
	insightUnavailable    = "AI insights are currently unavailable."
	suggestionUnavailable = "AI suggestions unavailable."
)

// recentGradeWindow is how many trailing grades feed the prompt.
const recentGradeWindow = 5

// ===== SERVICE INTERFACE =====

type InsightService interface {
	// StudentInsight asks the AI provider for a short performance
	// summary of a student in one subject.
	StudentInsight(ctx context.Context, studentID, subjectID string) (string, error)

	// LessonPlanIdea asks for a one-paragraph lesson hook.
	LessonPlanIdea(ctx context.Context, subjectName, topic string) (string, error)
}

// ===== SERVICE IMPLEMENTATION =====

type insightService struct {
	repo   repositories.Repository
	cfg    config.InsightConfig
	client *http.Client
	logger *slog.Logger
}

func NewInsightService(repo repositories.Repository, cfg config.InsightConfig, logger *slog.Logger) InsightService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &insightService{
		repo:   repo,
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type generateRequest struct {
	Model    string `json:"model"`
	Contents string `json:"contents"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (s *insightService) StudentInsight(ctx context.Context, studentID, subjectID string) (string, error) {
	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", fmt.Errorf("%w: student %s", ErrNotFound, studentID)
		}
		return "", fmt.Errorf("failed to get student: %w", err)
	}
	subject, err := s.repo.Subject().GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", fmt.Errorf("%w: subject %s", ErrNotFound, subjectID)
		}
		return "", fmt.Errorf("failed to get subject: %w", err)
	}

	grades, err := s.repo.Grade().List(ctx, repositories.GradeFilters{StudentID: studentID, SubjectID: subjectID})
	if err != nil {
		return "", fmt.Errorf("failed to list grades: %w", err)
	}
	if len(grades) > recentGradeWindow {
		grades = grades[len(grades)-recentGradeWindow:]
	}

	parts := make([]string, 0, len(grades))
	for _, grade := range grades {
		parts = append(parts, fmt.Sprintf("%s: %g/%g", grade.Type, grade.Score, grade.MaxScore))
	}

	prompt := fmt.Sprintf(
		"Analyze the performance of student %s in %s. "+
			"Here are their recent grades: %s. "+
			"Provide a concise, encouraging, and constructive 3-sentence summary for the teacher or parent. "+
			"Focus on trends and areas for improvement.",
		student.Name, subject.Name, strings.Join(parts, ", "))

	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Insight provider unavailable", "error", err, "student_id", studentID)
		return insightUnavailable, nil
	}
	return text, nil
}

func (s *insightService) LessonPlanIdea(ctx context.Context, subjectName, topic string) (string, error) {
	if strings.TrimSpace(subjectName) == "" || strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("%w: subject and topic are required", ErrValidationFailed)
	}

	prompt := fmt.Sprintf(
		"Generate a creative 1-paragraph lesson hook for a %s class about %q. Make it engaging for teenagers.",
		subjectName, topic)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Insight provider unavailable", "error", err, "topic", topic)
		return suggestionUnavailable, nil
	}
	return text, nil
}

func (s *insightService) generate(ctx context.Context, prompt string) (string, error) {
	if s.cfg.Endpoint == "" {
		return "", ErrServiceUnavailable
	}

	body, err := json.Marshal(generateRequest{Model: s.cfg.Model, Contents: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("insight request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight provider returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("insight provider returned empty text")
	}
	return out.Text, nil
}
