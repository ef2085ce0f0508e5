package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prehire/interview-api/config"
	"github.com/prehire/interview-api/internal/dto"
	"github.com/rs/zerolog/log"
)

const defaultResumeParserURL = "https://api.apilayer.com/resume_parser/upload"

// ResumeParserService extracts contact fields from an uploaded résumé via
// the APILayer document-parsing collaborator. Extraction is best effort:
// any field may come back empty and the caller must have the candidate
// confirm or complete them before the interview starts.
type ResumeParserService interface {
	Parse(ctx context.Context, file []byte) (*dto.ResumeParseResponseDTO, error)
}

type apiLayerResumeParser struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewResumeParserService(cfg *config.Config) ResumeParserService {
	if cfg.ApiLayerKey == "" {
		log.Warn().Msg("APILAYER_API_KEY is not set. Resume parsing will be non-functional.")
	}
	return &apiLayerResumeParser{
		apiKey:     cfg.ApiLayerKey,
		endpoint:   defaultResumeParserURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type resumeParserPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *apiLayerResumeParser) Parse(ctx context.Context, file []byte) (*dto.ResumeParseResponseDTO, error) {
	if s.apiKey == "" {
		return nil, errors.New("resume parser is not configured")
	}
	if len(file) == 0 {
		return nil, errors.New("no file provided")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("build resume parser request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("apikey", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call resume parser: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resume parser returned status %d", resp.StatusCode)
	}

	var payload resumeParserPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode resume parser response: %w", err)
	}

	return &dto.ResumeParseResponseDTO{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
		Text:  fmt.Sprintf("Resume parsed successfully for %s", payload.Name),
	}, nil
}
