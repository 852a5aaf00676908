package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebook/booking-api/internal/models"
	appErrors "github.com/carebook/booking-api/pkg/errors"
)

type availabilityRepoStub struct {
	records    []models.DayAvailability
	getErr     error
	replaceErr error

	gotStart    string
	gotEnd      string
	gotReplaced []models.DayAvailability
}

func (s *availabilityRepoStub) GetRange(ctx context.Context, practitionerID, start, end string) ([]models.DayAvailability, error) {
	s.gotStart, s.gotEnd = start, end
	return s.records, s.getErr
}

func (s *availabilityRepoStub) ReplaceRange(ctx context.Context, practitionerID string, records []models.DayAvailability) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.gotReplaced = records
	return nil
}

type invalidatorStub struct {
	patterns []string
	err      error
}

func (s *invalidatorStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return s.err
}

func TestAvailabilityServiceGetWeek(t *testing.T) {
	repo := &availabilityRepoStub{records: []models.DayAvailability{
		{Date: "2024-01-01", CategoryWindows: models.CategoryWindows{
			Phone: models.TimeWindow{From: "09:00", To: "12:00"},
		}},
	}}
	service := NewAvailabilityService(repo, nil, nil, nil)

	result, err := service.Get(context.Background(), "prac-1", "2024-01-03", "week")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", repo.gotStart, "week range must snap to Monday")
	assert.Equal(t, "2024-01-07", repo.gotEnd)
	require.Len(t, result.Availability, 1)
	require.Len(t, result.Weekly, 7)
	assert.True(t, result.Weekly[models.DayMonday].IsAvailable)
	assert.False(t, result.Weekly[models.DayTuesday].IsAvailable)
}

func TestAvailabilityServiceGetDay(t *testing.T) {
	repo := &availabilityRepoStub{}
	service := NewAvailabilityService(repo, nil, nil, nil)

	_, err := service.Get(context.Background(), "prac-1", "2024-01-03", "day")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", repo.gotStart)
	assert.Equal(t, "2024-01-03", repo.gotEnd)
}

func TestAvailabilityServiceGetInvalidDate(t *testing.T) {
	service := NewAvailabilityService(&availabilityRepoStub{}, nil, nil, nil)

	_, err := service.Get(context.Background(), "prac-1", "tomorrow", "week")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceGetFetchFailure(t *testing.T) {
	repo := &availabilityRepoStub{getErr: errors.New("backend down")}
	service := NewAvailabilityService(repo, nil, nil, nil)

	_, err := service.Get(context.Background(), "prac-1", "2024-01-03", "week")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFetchFailed.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceSaveWeekly(t *testing.T) {
	repo := &availabilityRepoStub{}
	cache := &invalidatorStub{}
	service := NewAvailabilityService(repo, cache, nil, nil)

	req := SaveWeeklyRequest{
		WeekStart: "2024-01-01",
		Days: models.WeeklyAvailability{
			models.DayMonday: models.WeeklyDay{CategoryWindows: models.CategoryWindows{
				Phone: models.TimeWindow{From: "09:00", To: "12:00"},
			}},
			models.DayFriday: models.WeeklyDay{},
		},
	}
	require.NoError(t, service.SaveWeekly(context.Background(), "prac-1", req))

	require.Len(t, repo.gotReplaced, 2)
	assert.Equal(t, "2024-01-01", repo.gotReplaced[0].Date)
	assert.Equal(t, "2024-01-05", repo.gotReplaced[1].Date)

	require.Len(t, cache.patterns, 1)
	assert.Equal(t, "calendar:prac-1:*", cache.patterns[0])
}

func TestAvailabilityServiceSaveWeeklyRejectsInvalidDay(t *testing.T) {
	repo := &availabilityRepoStub{}
	service := NewAvailabilityService(repo, nil, nil, nil)

	req := SaveWeeklyRequest{
		WeekStart: "2024-01-01",
		Days: models.WeeklyAvailability{
			models.DayTuesday: models.WeeklyDay{CategoryWindows: models.CategoryWindows{
				Phone:    models.TimeWindow{From: "09:00", To: "12:00"},
				InPerson: models.TimeWindow{From: "11:00", To: "14:00"},
			}},
		},
	}
	err := service.SaveWeekly(context.Background(), "prac-1", req)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "tuesday: phone and in-person hours overlap", appErr.Message)
	assert.Nil(t, repo.gotReplaced, "nothing may be written after a validation failure")
}

func TestAvailabilityServiceSaveWeeklyMissingWeekStart(t *testing.T) {
	service := NewAvailabilityService(&availabilityRepoStub{}, nil, nil, nil)

	err := service.SaveWeekly(context.Background(), "prac-1", SaveWeeklyRequest{
		Days: models.WeeklyAvailability{},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceSaveWeeklySubmitFailure(t *testing.T) {
	repo := &availabilityRepoStub{replaceErr: errors.New("backend down")}
	cache := &invalidatorStub{}
	service := NewAvailabilityService(repo, cache, nil, nil)

	req := SaveWeeklyRequest{
		WeekStart: "2024-01-01",
		Days: models.WeeklyAvailability{
			models.DayMonday: models.WeeklyDay{},
		},
	}
	err := service.SaveWeekly(context.Background(), "prac-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSubmitFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, cache.patterns, "failed saves must not invalidate the calendar cache")
}
