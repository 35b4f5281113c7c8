// Package headhunter fetches public hh.ru vacancies and renders them as posting text.
package headhunter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL      = "https://api.hh.ru"
	vacancyPath = "/vacancies"
	userAgent   = "spigell/fitscore (spigelly@gmail.com)"
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New creates a client. The token is optional: public vacancies need none.
func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// GetVacancy fetches a single vacancy by its ID.
func (c *Client) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	if id == "" {
		return nil, fmt.Errorf("vacancy id is empty")
	}

	var raw map[string]any
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s/%s", c.APIURL, vacancyPath, id), &raw); err != nil {
		return nil, fmt.Errorf("get vacancy %s: %w", id, err)
	}

	vacancy, err := decodeVacancy(raw)
	if err != nil {
		return nil, fmt.Errorf("decode vacancy %s: %w", id, err)
	}

	c.logger.Debug("got vacancy from HH.ru",
		zap.String("id", vacancy.ID),
		zap.String("name", vacancy.Name),
		zap.String("url", vacancy.AlternateURL),
		zap.Int("key skills", len(vacancy.KeySkills)),
	)

	if vacancy.Archived {
		c.logger.Warn("vacancy is archived, scoring it anyway",
			zap.String("id", vacancy.ID),
			zap.String("url", vacancy.AlternateURL),
		)
	}

	return vacancy, nil
}
